package domain

// Record is anything a backend stores under a string primary key.
type Record interface {
	GetID() string
	SetID(id string)
}

// FacilityScoped records belong to exactly one facility and are only visible
// inside a scope containing that facility.
type FacilityScoped interface {
	FacilityRef() string
}

// Owned records are visible to a single user.
type Owned interface {
	OwnerRef() string
}
