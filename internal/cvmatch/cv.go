package cvmatch

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

const apiCVsPath = "/api/cvs"

// ExtractedData is the structured content the platform pulled out of an
// uploaded document. Fields the extractor could not find come back as
// null, so all identity fields are pointers. The wire format uses the
// platform's French field names.
type ExtractedData struct {
	NomComplet   *string          `json:"nom_complet"`
	Email        *string          `json:"email"`
	Telephone    *string          `json:"telephone"`
	Ville        *string          `json:"ville"`
	Competences  []string         `json:"competences"`
	Experience   []map[string]any `json:"experience"`
	Formation    []map[string]any `json:"formation"`
	Langues      []string         `json:"langues"`
	ContenuTexte string           `json:"contenu_texte"`
}

// ExperienceEntry is a free-text period/description pair. Display only.
type ExperienceEntry struct {
	Periode     string `mapstructure:"periode"`
	Description string `mapstructure:"description"`
}

// EducationEntry is a free-text diploma/description pair. Display only.
type EducationEntry struct {
	Diplome     string `mapstructure:"diplome"`
	Description string `mapstructure:"description"`
}

// ExperienceEntries decodes the loosely typed experience maps.
func (d *ExtractedData) ExperienceEntries() ([]ExperienceEntry, error) {
	var entries []ExperienceEntry
	if err := mapstructure.Decode(d.Experience, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// EducationEntries decodes the loosely typed formation maps.
func (d *ExtractedData) EducationEntries() ([]EducationEntry, error) {
	var entries []EducationEntry
	if err := mapstructure.Decode(d.Formation, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// CVUpload is the response to a document upload: the platform-assigned
// id plus whatever the extractor recovered.
type CVUpload struct {
	ID            int           `json:"id"`
	ExtractedData ExtractedData `json:"extracted_data"`
}

// CVUpdate is the user-verified payload sent back after the correction
// step. Empty fields must be nil so they serialize as JSON null.
type CVUpdate struct {
	CVID                 int      `json:"cv_id"`
	NomComplet           *string  `json:"nom_complet"`
	EmailCV              *string  `json:"email_cv"`
	TelephoneCV          *string  `json:"telephone_cv"`
	Ville                *string  `json:"ville"`
	CompetencesExtraites []string `json:"competences_extraites"`
}

type CVs struct {
	Items []*CV
}

type CV struct {
	ID                   int      `json:"id"`
	UserID               int      `json:"user_id"`
	NomFichier           string   `json:"nom_fichier"`
	TypeFichier          string   `json:"type_fichier"`
	NomComplet           *string  `json:"nom_complet"`
	EmailCV              *string  `json:"email_cv"`
	TelephoneCV          *string  `json:"telephone_cv"`
	CompetencesExtraites []string `json:"competences_extraites"`
	DateUpload           string   `json:"date_upload"`
}

// UploadCV sends the document to the extraction endpoint and returns
// the assigned id together with the extracted fields.
func (c *Client) UploadCV(path string) (*CVUpload, error) {
	var upload *CVUpload
	if err := c.postFile(apiCVsPath+"/upload", "file", path, http.StatusCreated, &upload); err != nil {
		return nil, err
	}

	if upload == nil {
		return nil, fmt.Errorf("empty upload response")
	}

	return upload, nil
}

// UpdateCVData persists the verified data for a previously uploaded CV.
func (c *Client) UpdateCVData(id int, data *CVUpdate) error {
	path := fmt.Sprintf("%s/%d/update-data", apiCVsPath, id)

	return c.putJSON(path, data, http.StatusOK, nil)
}

// GetMyCVs returns all CVs uploaded by the authenticated user.
func (c *Client) GetMyCVs() (*CVs, error) {
	var items []*CV
	if err := c.getJSON(apiCVsPath+"/me", nil, &items); err != nil {
		return nil, err
	}

	return &CVs{Items: items}, nil
}

// DeleteCV removes a CV from the platform.
func (c *Client) DeleteCV(id int) error {
	return c.delete(fmt.Sprintf("%s/%d", apiCVsPath, id))
}

func (c *CVs) Len() int {
	return len(c.Items)
}

func (c *CVs) Filenames() []string {
	names := make([]string, 0, len(c.Items))

	for _, cv := range c.Items {
		names = append(names, cv.NomFichier)
	}

	return names
}

func (c *CVs) FindByID(id int) *CV {
	for _, cv := range c.Items {
		if cv.ID == id {
			return cv
		}
	}

	return nil
}

// Label renders a short one-line description of the CV, used for
// interactive selection.
func (cv *CV) Label() string {
	return strconv.Itoa(cv.ID) + " " + cv.NomFichier + " / " + cv.DateUpload
}
