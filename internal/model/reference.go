package model

import "time"

// ReferenceKind describes one name-keyed dimension table.
type ReferenceKind struct {
	Slug   string // route segment and audit tag
	Table  string
	Label  string
	Unique string // unique constraint on the name column
}

// The six reference tables. Table names are fixed here and never taken from input.
var (
	KindClinic      = ReferenceKind{Slug: "clinics", Table: "clinics", Label: "clinic", Unique: "clinics_name_key"}
	KindFaculty     = ReferenceKind{Slug: "faculties", Table: "faculties", Label: "faculty", Unique: "faculties_name_key"}
	KindGovernorate = ReferenceKind{Slug: "governorates", Table: "governorates", Label: "governorate", Unique: "governorates_name_key"}
	KindHospital    = ReferenceKind{Slug: "hospitals", Table: "external_hospitals", Label: "external hospital", Unique: "external_hospitals_name_key"}
	KindLevel       = ReferenceKind{Slug: "levels", Table: "levels", Label: "level", Unique: "levels_name_key"}
	KindNationality = ReferenceKind{Slug: "nationalities", Table: "nationalities", Label: "nationality", Unique: "nationalities_name_key"}
)

// ReferenceKinds lists every reference table in route order.
var ReferenceKinds = []ReferenceKind{
	KindClinic, KindFaculty, KindGovernorate, KindHospital, KindLevel, KindNationality,
}

// Reference is a single row of a reference table.
type Reference struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReferenceRequest creates or renames a reference row.
type ReferenceRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
}
