package collaborator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Schnee09/BHEDU-sub006/internal/config"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"
	apperrors "github.com/Schnee09/BHEDU-sub006/pkg/errors"

	"github.com/rs/zerolog"
)

// Client talks to the school-core service for the three external concerns
// this engine consumes: teacher ownership, attendance rates and class
// enrollment. Every failure comes back as a CollaboratorUnavailableError so
// callers can uniformly downgrade to partial results.
type Client struct {
	cfg         *config.Config
	httpClient  *http.Client
	authManager *AuthManager
	log         zerolog.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Collaborators.SchoolCore.Timeout,
		},
		authManager: NewAuthManager(cfg),
		log:         logger.With("collaborator_client"),
	}
}

// ResolveTeacherOwnership reports whether the actor owns the class. It must
// pass before any grade write against that class is accepted.
func (c *Client) ResolveTeacherOwnership(ctx context.Context, classID, actorID string) (bool, error) {
	params := url.Values{}
	params.Add("class_id", classID)
	params.Add("actor_id", actorID)

	var ownership model.OwnershipResponse
	if err := c.get(ctx, c.cfg.Collaborators.SchoolCore.OwnershipEndpoint, params, &ownership); err != nil {
		return false, apperrors.CollaboratorUnavailableError{Name: "authorization", Err: err}
	}

	c.log.Debug().
		Str("class_id", classID).
		Str("actor_id", actorID).
		Bool("owned", ownership.Owned).
		Msg("Teacher ownership resolved")

	return ownership.Owned, nil
}

// GetAttendanceRate returns the pre-computed attendance percentage for one
// student and period.
func (c *Client) GetAttendanceRate(ctx context.Context, studentID string, period model.Semester) (float64, error) {
	params := url.Values{}
	params.Add("student_id", studentID)
	params.Add("period", string(period))

	var attendance model.AttendanceResponse
	if err := c.get(ctx, c.cfg.Collaborators.SchoolCore.AttendanceEndpoint, params, &attendance); err != nil {
		return 0, apperrors.CollaboratorUnavailableError{Name: "attendance", Err: err}
	}

	return attendance.Rate, nil
}

// ListEnrolledStudents returns the roster used to seed assignment-grade
// placeholders.
func (c *Client) ListEnrolledStudents(ctx context.Context, classID string) ([]string, error) {
	params := url.Values{}
	params.Add("class_id", classID)

	var enrollment model.EnrollmentResponse
	if err := c.get(ctx, c.cfg.Collaborators.SchoolCore.EnrollmentEndpoint, params, &enrollment); err != nil {
		return nil, apperrors.CollaboratorUnavailableError{Name: "enrollment", Err: err}
	}

	return enrollment.StudentIDs, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	token, err := c.authManager.GetToken(ctx)
	if err != nil {
		return err
	}

	fullURL := c.cfg.Collaborators.SchoolCore.BaseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
