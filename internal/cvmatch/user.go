package cvmatch

import (
	"net/http"
	"strings"
)

const apiUsersPath = "/api/users"

type User struct {
	ID                 int     `json:"id"`
	Email              string  `json:"email"`
	Nom                string  `json:"nom"`
	Prenom             string  `json:"prenom"`
	Telephone          *string `json:"telephone"`
	VillePreferee      *string `json:"ville_preferee"`
	PhotoProfil        *string `json:"photo_profil"`
	SalaireMinimum     *int    `json:"salaire_minimum"`
	TypeContratPrefere *string `json:"type_contrat_prefere"`
	SecteurActivite    *string `json:"secteur_activite"`
	AccepteTeletravail *bool   `json:"accepte_teletravail"`
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Prenom + " " + u.Nom)
}

// ProfileUpdate carries the editable profile fields. Nil pointers are
// serialized as null and leave the platform value untouched.
type ProfileUpdate struct {
	Nom                *string `json:"nom"`
	Prenom             *string `json:"prenom"`
	Telephone          *string `json:"telephone"`
	VillePreferee      *string `json:"ville_preferee"`
	SalaireMinimum     *int    `json:"salaire_minimum"`
	TypeContratPrefere *string `json:"type_contrat_prefere"`
	SecteurActivite    *string `json:"secteur_activite"`
	AccepteTeletravail *bool   `json:"accepte_teletravail"`
}

// UpdateProfile saves the profile fields for the authenticated user.
func (c *Client) UpdateProfile(p *ProfileUpdate) error {
	return c.putJSON(apiUsersPath+"/profile", p, http.StatusOK, nil)
}

// UploadPhoto replaces the profile photo. The platform only accepts
// images; callers are expected to validate before uploading.
func (c *Client) UploadPhoto(path string) error {
	return c.postFile(apiUsersPath+"/photo", "file", path, http.StatusOK, nil)
}
