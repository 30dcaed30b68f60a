package models

// Department is an academic department. Name and code are unique, code is stored uppercased.
type Department struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name" validate:"required"`
	Code        string `json:"code" bson:"code" validate:"required"`
	Description string `json:"description" bson:"description"`
	HeadName    string `json:"head_name" bson:"head_name"`
	HeadEmail   string `json:"head_email" bson:"head_email" validate:"basic_email"`
	HeadContact string `json:"head_contact" bson:"head_contact"`
	Status      Status `json:"status" bson:"status" validate:"required,oneof=active inactive"`
}
