package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/models"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/repo"
)

func newTestService(t *testing.T) *PassengerService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := repo.New(db)
	require.NoError(t, err)

	return &PassengerService{Repo: store}
}

func ptr[T any](v T) *T { return &v }

func validPassenger() models.Passenger {
	return models.Passenger{
		Name:        "Dawson, Mr. Jack",
		Pclass:      3,
		Sex:         models.SexMale,
		Age:         ptr(20),
		Fare:        8.05,
		Embarked:    "Southampton",
		Destination: "New York",
		Ticket:      "A/5 21171",
	}
}

func TestValidateFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*models.Passenger)
		field  string
	}{
		{name: "empty name", mutate: func(p *models.Passenger) { p.Name = "" }, field: "name"},
		{name: "pclass zero", mutate: func(p *models.Passenger) { p.Pclass = 0 }, field: "pclass"},
		{name: "pclass four", mutate: func(p *models.Passenger) { p.Pclass = 4 }, field: "pclass"},
		{name: "bad sex", mutate: func(p *models.Passenger) { p.Sex = "other" }, field: "sex"},
		{name: "age too high", mutate: func(p *models.Passenger) { p.Age = ptr(200) }, field: "age"},
		{name: "negative age", mutate: func(p *models.Passenger) { p.Age = ptr(-1) }, field: "age"},
		{name: "negative fare", mutate: func(p *models.Passenger) { p.Fare = -1 }, field: "fare"},
		{name: "unknown port", mutate: func(p *models.Passenger) { p.Embarked = "Liverpool" }, field: "embarked"},
		{name: "empty destination", mutate: func(p *models.Passenger) { p.Destination = "" }, field: "destination"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validPassenger()
			tt.mutate(&p)

			err := ValidateFields(&p)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.field, ae.Field)
		})
	}

	t.Run("nil age is allowed", func(t *testing.T) {
		t.Parallel()

		p := validPassenger()
		p.Age = nil
		require.NoError(t, ValidateFields(&p))
	})
}

func TestCreate_StampsCreatedBy(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validPassenger(), "jack")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "jack", created.CreatedBy)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jack", got.CreatedBy)
}

func TestCreate_CabinRule(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	first := validPassenger()
	first.Cabin = ptr("B52")
	first.Pclass = 3
	_, err := svc.Create(ctx, first, "jack")
	require.NoError(t, err)

	// same cabin, different class
	second := validPassenger()
	second.Name = "DeWitt Bukater, Miss. Rose"
	second.Cabin = ptr("B52")
	second.Pclass = 1
	_, err = svc.Create(ctx, second, "rose")
	assert.ErrorIs(t, err, apperr.ErrCabinConflict)

	// same cabin, same class
	third := validPassenger()
	third.Name = "Fabrizio De Rossi"
	third.Cabin = ptr("B52")
	third.Pclass = 3
	_, err = svc.Create(ctx, third, "jack")
	require.NoError(t, err)

	// no cabin never conflicts
	fourth := validPassenger()
	fourth.Name = "Cora Cartmell"
	fourth.Pclass = 1
	_, err = svc.Create(ctx, fourth, "rose")
	require.NoError(t, err)
}

func TestUpdate_CabinRuleExcludesSelf(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	p := validPassenger()
	p.Cabin = ptr("C123")
	created, err := svc.Create(ctx, p, "jack")
	require.NoError(t, err)

	// updating a record against its own cabin is fine
	upd := validPassenger()
	upd.Cabin = ptr("C123")
	upd.Age = ptr(21)
	updated, err := svc.Update(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, 21, *updated.Age)
	assert.Equal(t, "jack", updated.CreatedBy)

	// moving into an occupied cabin with a different class is not
	other := validPassenger()
	other.Name = "DeWitt Bukater, Miss. Rose"
	other.Pclass = 1
	other.Cabin = ptr("B52")
	_, err = svc.Create(ctx, other, "rose")
	require.NoError(t, err)

	upd.Cabin = ptr("B52")
	upd.Pclass = 3
	_, err = svc.Update(ctx, created.ID, upd)
	assert.ErrorIs(t, err, apperr.ErrCabinConflict)
}

func TestUpdate_UnknownID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.Update(context.Background(), 999, validPassenger())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validPassenger(), "boss")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), apperr.ErrNotFound)
}

func TestList_Filters(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p := validPassenger()
		p.Name = fmt.Sprintf("Third class %d", i)
		_, err := svc.Create(ctx, p, "jack")
		require.NoError(t, err)
	}
	first := validPassenger()
	first.Name = "First class"
	first.Pclass = 1
	first.Sex = models.SexFemale
	first.Embarked = "Cherbourg"
	_, err := svc.Create(ctx, first, "rose")
	require.NoError(t, err)

	total, items, err := svc.List(ctx, repo.ListFilter{Pclass: ptr(3), Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 3)

	total, items, err = svc.List(ctx, repo.ListFilter{Sex: models.SexFemale, Embarked: "Cherbourg", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "First class", items[0].Name)
}

func TestSearchByName_FallbackScan(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	p := validPassenger()
	_, err := svc.Create(ctx, p, "jack")
	require.NoError(t, err)

	total, items, err := svc.SearchByName(ctx, "dawson", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Dawson, Mr. Jack", items[0].Name)

	total, _, err = svc.SearchByName(ctx, "hockley", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
