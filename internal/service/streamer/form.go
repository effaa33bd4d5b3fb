package streamer

import (
	"context"
	"strings"

	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
)

type FormClient interface {
	ValidateUsername(ctx context.Context, username string) (*models.ValidateUsernameResponse, error)
	AddStreamer(ctx context.Context, username string) (*models.Streamer, error)
}

// Form is the add-streamer flow: a username must pass Validate before Submit sends it.
type Form struct {
	Username          string `json:"username"`
	IsValid           bool   `json:"is_valid"`
	ValidationMessage string `json:"validation_message"`

	client    FormClient
	validated string
}

func NewForm(client FormClient, username string) *Form {
	f := &Form{client: client}
	f.SetUsername(username)
	return f
}

// SetUsername normalizes the name and drops any earlier validation.
func (f *Form) SetUsername(username string) {
	f.Username = normalizeUsername(username)
	f.IsValid = false
	f.ValidationMessage = ""
	f.validated = ""
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (f *Form) Validate(ctx context.Context) error {

	f.IsValid = false
	f.validated = ""

	if f.Username == "" {
		f.ValidationMessage = "Username is required"
		return models.ErrInvalidUsername
	}

	resp, err := f.client.ValidateUsername(ctx, f.Username)
	if err != nil {
		f.ValidationMessage = "Could not validate username"
		return errors.Wrap(err, "ValidateUsername")
	}

	f.ValidationMessage = resp.Message
	if !resp.Valid {
		if f.ValidationMessage == "" {
			f.ValidationMessage = "Username not found on Twitch"
		}
		return errors.Wrap(models.ErrInvalidUsername, f.ValidationMessage)
	}

	f.IsValid = true
	f.validated = f.Username

	return nil
}

// Submit adds the validated streamer. On success the form is reset for the next entry.
func (f *Form) Submit(ctx context.Context) (*models.Streamer, error) {

	if !f.IsValid || f.validated != f.Username {
		return nil, models.ErrFormNotValidated
	}

	streamer, err := f.client.AddStreamer(ctx, f.Username)
	if err != nil {
		return nil, errors.Wrap(err, "AddStreamer")
	}

	f.Username = ""
	f.IsValid = false
	f.validated = ""

	return streamer, nil
}
