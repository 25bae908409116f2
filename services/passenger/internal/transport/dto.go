package transport

import "github.com/titaniclabs/titanic-api/services/passenger/internal/models"

// PassengerRequest is the create/update body. CreatedBy is never taken
// from the client; it is stamped from the access token.
type PassengerRequest struct {
	Name        string  `json:"name"`
	Pclass      int     `json:"pclass"`
	Sex         string  `json:"sex"`
	Age         *int    `json:"age"`
	Fare        float64 `json:"fare"`
	Embarked    string  `json:"embarked"`
	Destination string  `json:"destination"`
	Cabin       *string `json:"cabin"`
	Ticket      string  `json:"ticket"`
}

func (r *PassengerRequest) ToModel() models.Passenger {
	return models.Passenger{
		Name:        r.Name,
		Pclass:      r.Pclass,
		Sex:         r.Sex,
		Age:         r.Age,
		Fare:        r.Fare,
		Embarked:    r.Embarked,
		Destination: r.Destination,
		Cabin:       r.Cabin,
		Ticket:      r.Ticket,
	}
}

type ListResponse struct {
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Items []models.Passenger `json:"items"`
}
