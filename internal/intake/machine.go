package intake

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
	"github.com/cvmatch/cvmatch-cli/internal/logger"
)

// State is the explicit lifecycle position of one intake flow. Each
// state carries only the data valid in it: a selected document exists
// from Select until the upload resolves, the extraction and draft exist
// from a successful upload until submission or cancellation.
type State int

const (
	StateIdle State = iota
	StateUploading
	StateAwaitingVerification
	StateSubmitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateAwaitingVerification:
		return "awaiting_verification"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrInvalidState is returned when an operation is requested from a
// state it is not reachable from.
var ErrInvalidState = errors.New("operation not allowed in current state")

// Extractor turns an uploaded document into structured fields. It is
// the platform's extraction endpoint, implemented by cvmatch.Client.
type Extractor interface {
	UploadCV(path string) (*cvmatch.CVUpload, error)
}

// Updater persists the verified data, implemented by cvmatch.Client.
type Updater interface {
	UpdateCVData(id int, data *cvmatch.CVUpdate) error
}

// Machine drives one document from selection through extraction to a
// user-verified submission. It is owned by a single flow; there is no
// concurrent writer.
type Machine struct {
	state     State
	logger    *zap.Logger
	extractor Extractor
	updater   Updater

	doc       *Document
	cvID      int
	extracted *cvmatch.ExtractedData
	draft     *Draft
	lastErr   error
}

func NewMachine(extractor Extractor, updater Updater, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}

	return &Machine{
		state:     StateIdle,
		logger:    log,
		extractor: extractor,
		updater:   updater,
	}
}

func (m *Machine) State() State { return m.state }

// Err returns the failure that sent the machine back to a stable state,
// or nil. It is cleared by the next operation.
func (m *Machine) Err() error { return m.lastErr }

func (m *Machine) Document() *Document { return m.doc }

// Extraction is the read-only result of the upload, nil before it.
func (m *Machine) Extraction() *cvmatch.ExtractedData { return m.extracted }

// Draft is the editable copy, nil outside AwaitingVerification and
// Submitting.
func (m *Machine) Draft() *Draft { return m.draft }

func (m *Machine) CVID() int { return m.cvID }

// Select validates the file against the constraints and stages it for
// upload. A rejected file leaves the machine Idle with no document.
func (m *Machine) Select(path string, c Constraints) error {
	if m.state != StateIdle {
		return ErrInvalidState
	}
	m.lastErr = nil

	doc, err := Open(path, c)
	if err != nil {
		m.lastErr = err
		return err
	}

	m.doc = doc
	m.logger.Debug("document selected",
		zap.String("name", doc.Name),
		zap.Int64("size", doc.Size),
		zap.String("content_type", doc.ContentType),
	)

	return nil
}

// BeginUpload moves the machine into Uploading and returns the staged
// document. The caller dispatches the extraction call and reports back
// with FinishUpload. While Uploading no second upload can start.
func (m *Machine) BeginUpload() (*Document, error) {
	if m.state != StateIdle {
		return nil, ErrInvalidState
	}
	if m.doc == nil {
		return nil, ErrNoFile
	}

	m.lastErr = nil
	m.state = StateUploading

	return m.doc, nil
}

// FinishUpload resolves the outstanding extraction call. On success the
// machine holds the extraction and a fresh draft; on failure it returns
// to Idle with the pending file cleared.
func (m *Machine) FinishUpload(upload *cvmatch.CVUpload, err error) error {
	if m.state != StateUploading {
		return ErrInvalidState
	}

	if err != nil {
		m.state = StateIdle
		m.doc = nil
		m.lastErr = err
		m.logger.Warn("extraction failed", zap.Error(err))

		return err
	}

	m.cvID = upload.ID
	m.extracted = &upload.ExtractedData
	m.draft = newDraft(m.extracted)
	m.doc = nil
	m.state = StateAwaitingVerification

	m.logger.Info("extraction completed",
		zap.Int("cv_id", m.cvID),
		zap.Int("skills", len(m.draft.Skills)),
		zap.String("text_preview", logger.TruncateForLog(m.extracted.ContenuTexte, 120)),
	)

	return nil
}

// Upload runs the extraction synchronously. Convenience path for
// non-interactive callers.
func (m *Machine) Upload() error {
	doc, err := m.BeginUpload()
	if err != nil {
		return err
	}

	upload, err := m.extractor.UploadCV(doc.Path)
	if ferr := m.FinishUpload(upload, err); ferr != nil {
		return fmt.Errorf("uploading document: %w", ferr)
	}

	return nil
}

// EditField sets one of the four identity fields on the draft. It is a
// pure local mutation; validation happens at submit time.
func (m *Machine) EditField(name, value string) error {
	if m.state != StateAwaitingVerification {
		return ErrInvalidState
	}

	switch name {
	case FieldFullName:
		m.draft.FullName = value
	case FieldEmail:
		m.draft.Email = value
	case FieldPhone:
		m.draft.Phone = value
	case FieldCity:
		m.draft.City = value
	default:
		return fmt.Errorf("unknown field: %s", name)
	}

	return nil
}

func (m *Machine) AddSkill(skill string) error {
	if m.state != StateAwaitingVerification {
		return ErrInvalidState
	}

	m.draft.AddSkill(skill)

	return nil
}

func (m *Machine) RemoveSkill(skill string) error {
	if m.state != StateAwaitingVerification {
		return ErrInvalidState
	}

	m.draft.RemoveSkill(skill)

	return nil
}

// BeginSubmit moves the machine into Submitting and hands out the
// payload for the update call. The draft stays untouched so a failed
// submission can be retried.
func (m *Machine) BeginSubmit() (*cvmatch.CVUpdate, error) {
	if m.state != StateAwaitingVerification {
		return nil, ErrInvalidState
	}

	m.lastErr = nil
	m.state = StateSubmitting

	return m.draft.Payload(m.cvID), nil
}

// FinishSubmit resolves the outstanding update call. Failure returns
// the machine to AwaitingVerification with every edit intact.
func (m *Machine) FinishSubmit(err error) error {
	if m.state != StateSubmitting {
		return ErrInvalidState
	}

	if err != nil {
		m.state = StateAwaitingVerification
		m.lastErr = err
		m.logger.Warn("submission failed", zap.Error(err))

		return err
	}

	m.state = StateDone
	m.logger.Info("verified data submitted", zap.Int("cv_id", m.cvID))

	return nil
}

// Submit runs the update synchronously.
func (m *Machine) Submit() error {
	payload, err := m.BeginSubmit()
	if err != nil {
		return err
	}

	if ferr := m.FinishSubmit(m.updater.UpdateCVData(m.cvID, payload)); ferr != nil {
		return fmt.Errorf("submitting verified data: %w", ferr)
	}

	return nil
}

// Cancel discards the extraction and draft unconditionally and returns
// to Idle. No network call, no confirmation.
func (m *Machine) Cancel() {
	m.state = StateIdle
	m.doc = nil
	m.cvID = 0
	m.extracted = nil
	m.draft = nil
	m.lastErr = nil
}
