package account

import (
	"time"

	"github.com/clinicdesk/clinicdesk/internal/platform/docstore"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

const usersCollection = "users"

// Profile is the application-level user record stored in the users
// collection, keyed by identity id (Profile.ID == Identity.ID). Created once
// at sign-up with role "patient"; this code never mutates the role.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	DOB       string    `json:"dob"`
	Gender    string    `json:"gender"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Profile) fields() map[string]interface{} {
	return map[string]interface{}{
		"name":      p.Name,
		"email":     p.Email,
		"phone":     p.Phone,
		"dob":       p.DOB,
		"gender":    p.Gender,
		"role":      p.Role,
		"createdAt": p.CreatedAt,
	}
}

func profileFromDoc(doc *docstore.Document) *Profile {
	p := &Profile{
		ID:     doc.ID,
		Name:   docstore.AsString(doc.Data["name"]),
		Email:  docstore.AsString(doc.Data["email"]),
		Phone:  docstore.AsString(doc.Data["phone"]),
		DOB:    docstore.AsString(doc.Data["dob"]),
		Gender: docstore.AsString(doc.Data["gender"]),
		Role:   docstore.AsString(doc.Data["role"]),
	}
	if t, ok := docstore.AsTime(doc.Data["createdAt"]); ok {
		p.CreatedAt = t
	}
	return p
}
