package intake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
)

type fakeExtractor struct {
	upload *cvmatch.CVUpload
	err    error
	calls  int
}

func (f *fakeExtractor) UploadCV(string) (*cvmatch.CVUpload, error) {
	f.calls++
	return f.upload, f.err
}

type fakeUpdater struct {
	err   error
	calls int
	got   *cvmatch.CVUpdate
	gotID int
}

func (f *fakeUpdater) UpdateCVData(id int, data *cvmatch.CVUpdate) error {
	f.calls++
	f.gotID = id
	f.got = data
	return f.err
}

func strPtr(s string) *string { return &s }

func extraction() *cvmatch.CVUpload {
	return &cvmatch.CVUpload{
		ID: 42,
		ExtractedData: cvmatch.ExtractedData{
			NomComplet:   strPtr("Jane Doe"),
			Email:        nil,
			Telephone:    strPtr("+212600000000"),
			Ville:        nil,
			Competences:  []string{"React", "React", "SQL"},
			ContenuTexte: "Jane Doe backend engineer",
		},
	}
}

func awaitingMachine(t *testing.T, extractor *fakeExtractor, updater *fakeUpdater) *Machine {
	t.Helper()

	m := NewMachine(extractor, updater, zap.NewNop())
	path := writeTestFile(t, "cv.pdf", []byte("%PDF-1.4 test"))

	require.NoError(t, m.Select(path, CVConstraints()))
	require.NoError(t, m.Upload())
	require.Equal(t, StateAwaitingVerification, m.State())

	return m
}

func TestSelectRejectionKeepsMachineIdleWithoutNetworkCall(t *testing.T) {
	extractor := &fakeExtractor{}
	m := NewMachine(extractor, &fakeUpdater{}, zap.NewNop())

	path := writeTestFile(t, "notes.txt", []byte("plain text, not a cv"))
	err := m.Select(path, CVConstraints())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, StateIdle, m.State())
	assert.ErrorIs(t, m.Err(), ErrUnsupportedType)
	assert.Zero(t, extractor.calls)

	// Upload without a staged document must not reach the collaborator either.
	require.Error(t, m.Upload())
	assert.Zero(t, extractor.calls)
}

func TestUploadSuccessInitialisesDeduplicatedDraft(t *testing.T) {
	m := awaitingMachine(t, &fakeExtractor{upload: extraction()}, &fakeUpdater{})

	draft := m.Draft()
	require.NotNil(t, draft)
	assert.Equal(t, []string{"React", "SQL"}, draft.Skills)
	assert.Equal(t, "Jane Doe", draft.FullName)
	assert.Equal(t, "", draft.Email, "null field must become an empty editable value")
	assert.Equal(t, 42, m.CVID())
	assert.Nil(t, m.Document(), "raw file reference is discarded once extraction arrives")
}

func TestUploadFailureReturnsToIdleAndClearsFile(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("bad status: 500 Internal Server Error")}
	m := NewMachine(extractor, &fakeUpdater{}, zap.NewNop())

	path := writeTestFile(t, "cv.pdf", []byte("%PDF-1.4"))
	require.NoError(t, m.Select(path, CVConstraints()))

	err := m.Upload()

	require.Error(t, err)
	assert.Equal(t, StateIdle, m.State())
	assert.Nil(t, m.Document())
	assert.Nil(t, m.Draft())
	assert.Error(t, m.Err())
}

func TestSkillListInvariants(t *testing.T) {
	m := awaitingMachine(t, &fakeExtractor{upload: extraction()}, &fakeUpdater{})

	require.NoError(t, m.AddSkill("  Go  "))
	assert.Equal(t, []string{"React", "SQL", "Go"}, m.Draft().Skills)

	// Adding an already present skill is idempotent.
	require.NoError(t, m.AddSkill("Go"))
	assert.Equal(t, []string{"React", "SQL", "Go"}, m.Draft().Skills)

	// Case-sensitive: a different casing is a different skill.
	require.NoError(t, m.AddSkill("go"))
	assert.Equal(t, []string{"React", "SQL", "Go", "go"}, m.Draft().Skills)

	// Whitespace-only input is a no-op.
	require.NoError(t, m.AddSkill("   "))
	assert.Len(t, m.Draft().Skills, 4)

	require.NoError(t, m.RemoveSkill("SQL"))
	assert.Equal(t, []string{"React", "Go", "go"}, m.Draft().Skills)

	// Removing an absent skill is a no-op.
	require.NoError(t, m.RemoveSkill("SQL"))
	assert.Len(t, m.Draft().Skills, 3)
}

func TestEditFieldOnlyTouchesDraft(t *testing.T) {
	updater := &fakeUpdater{}
	m := awaitingMachine(t, &fakeExtractor{upload: extraction()}, updater)

	require.NoError(t, m.EditField(FieldEmail, "jane@example.com"))
	require.NoError(t, m.EditField(FieldCity, "Casablanca"))
	require.Error(t, m.EditField("salary", "1000"))

	assert.Equal(t, "jane@example.com", m.Draft().Email)
	assert.Equal(t, "Casablanca", m.Draft().City)
	assert.Zero(t, updater.calls, "editing must not call the network")
}

func TestSubmitUnreachableOutsideAwaitingVerification(t *testing.T) {
	m := NewMachine(&fakeExtractor{}, &fakeUpdater{}, zap.NewNop())

	assert.ErrorIs(t, m.Submit(), ErrInvalidState)

	_, err := m.BeginSubmit()
	assert.ErrorIs(t, err, ErrInvalidState)

	// Also unreachable while an upload is in flight.
	path := writeTestFile(t, "cv.pdf", []byte("%PDF-1.4"))
	require.NoError(t, m.Select(path, CVConstraints()))
	_, err = m.BeginUpload()
	require.NoError(t, err)
	assert.Equal(t, StateUploading, m.State())
	assert.ErrorIs(t, m.Submit(), ErrInvalidState)
}

func TestBeginUploadSerialisesConcurrentUploads(t *testing.T) {
	m := NewMachine(&fakeExtractor{}, &fakeUpdater{}, zap.NewNop())
	path := writeTestFile(t, "cv.pdf", []byte("%PDF-1.4"))
	require.NoError(t, m.Select(path, CVConstraints()))

	_, err := m.BeginUpload()
	require.NoError(t, err)

	_, err = m.BeginUpload()
	assert.ErrorIs(t, err, ErrInvalidState, "no re-entrant uploads while one is in flight")
}

func TestSubmitRoundTripsNullFields(t *testing.T) {
	updater := &fakeUpdater{}
	m := awaitingMachine(t, &fakeExtractor{upload: extraction()}, updater)

	// Email arrived null, stays unedited, must go out as null again.
	require.NoError(t, m.Submit())

	require.Equal(t, 1, updater.calls)
	assert.Equal(t, 42, updater.gotID)
	assert.Equal(t, 42, updater.got.CVID)
	assert.Nil(t, updater.got.EmailCV)
	assert.Nil(t, updater.got.Ville)
	require.NotNil(t, updater.got.NomComplet)
	assert.Equal(t, "Jane Doe", *updater.got.NomComplet)
	assert.Equal(t, []string{"React", "SQL"}, updater.got.CompetencesExtraites)
	assert.Equal(t, StateDone, m.State())
}

func TestSubmitTrimsAndNullsWhitespaceFields(t *testing.T) {
	updater := &fakeUpdater{}
	m := awaitingMachine(t, &fakeExtractor{upload: extraction()}, updater)

	require.NoError(t, m.EditField(FieldFullName, "   "))
	require.NoError(t, m.Submit())

	assert.Nil(t, updater.got.NomComplet, "whitespace-only field must be sent as null")
}

func TestSubmissionFailureKeepsDraftAndState(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("bad status: 502 Bad Gateway")}
	m := awaitingMachine(t, &fakeExtractor{upload: extraction()}, updater)

	require.NoError(t, m.EditField(FieldEmail, "jane@example.com"))
	require.NoError(t, m.AddSkill("Go"))

	err := m.Submit()

	require.Error(t, err)
	assert.Equal(t, StateAwaitingVerification, m.State())
	assert.Equal(t, "jane@example.com", m.Draft().Email)
	assert.Contains(t, m.Draft().Skills, "Go")

	// Re-submission succeeds once the collaborator recovers.
	updater.err = nil
	require.NoError(t, m.Submit())
	assert.Equal(t, StateDone, m.State())
	require.NotNil(t, updater.got.EmailCV)
	assert.Equal(t, "jane@example.com", *updater.got.EmailCV)
}

func TestCancelDiscardsEverythingFromAnyState(t *testing.T) {
	m := awaitingMachine(t, &fakeExtractor{upload: extraction()}, &fakeUpdater{})

	m.Cancel()

	assert.Equal(t, StateIdle, m.State())
	assert.Nil(t, m.Draft())
	assert.Nil(t, m.Extraction())
	assert.Zero(t, m.CVID())

	// Cancelling while Idle stays Idle.
	m.Cancel()
	assert.Equal(t, StateIdle, m.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_verification", StateAwaitingVerification.String())
	assert.Equal(t, "unknown", State(99).String())
}
