package models

const (
	SexMale   = "male"
	SexFemale = "female"
)

// EmbarkPorts is the closed set of accepted embarkation ports.
var EmbarkPorts = []string{"Southampton", "Cherbourg", "Queenstown"}

type Passenger struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Pclass      int     `gorm:"not null"                 json:"pclass"`
	Sex         string  `gorm:"not null"                 json:"sex"`
	Age         *int    `gorm:""                         json:"age"`
	Fare        float64 `gorm:"not null"                 json:"fare"`
	Embarked    string  `gorm:"not null"                 json:"embarked"`
	Destination string  `gorm:"not null"                 json:"destination"`
	Cabin       *string `gorm:"index"                    json:"cabin"`
	Ticket      string  `gorm:""                         json:"ticket,omitempty"`
	CreatedBy   string  `gorm:""                         json:"created_by,omitempty"`
}
