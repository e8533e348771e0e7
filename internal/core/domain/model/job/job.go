package job

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/errs"
)

var (
	// ErrJobIsNotConstructed is returned when a Job instance was not created through
	// NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")
)

// Job is the aggregate root recording one ingestion run: who it ran for, how it ended
// and what it counted.
//
// Job follows these invariants:
//   - Must have a valid identifier, a non-empty site and at least one partner source
//   - updatedAt is never before createdAt
//   - stats are nil while the job is running and set on completion
//   - errorMessage is set only for FAILED jobs
//   - Only a PROCESSING job can be finished or failed
type Job struct {
	id     kernel.UUID
	status Status

	createdAt time.Time
	updatedAt time.Time

	// siteID and sources form the run input
	siteID  string
	sources []kernel.SourceID

	// stats is nil until the job completes
	stats *Stats

	// errorMessage describes why a FAILED job failed
	errorMessage *string

	isConstructed bool
}

// NewJob creates a job for an ingestion run that starts now, in Processing status.
//
// Parameters:
//   - id: Unique job identifier
//   - siteID: Site the run ingests deliveries for (required)
//   - sources: Partner sources the run fetches (at least one; stored sorted and de-duplicated)
//   - now: Creation time; also the initial update time
//
// Returns:
//   - *Job: The created job
//   - error: All validation errors joined together
//
// Example:
//
//	j, err := job.NewJob(kernel.NewUUID(), "site-1", []kernel.SourceID{"A", "B"}, time.Now())
func NewJob(id kernel.UUID, siteID string, sources []kernel.SourceID, now time.Time) (*Job, error) {
	j := &Job{
		status:        Processing,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setSiteID(siteID),
		j.setSources(sources),
		j.setCreatedAt(now),
	); err != nil {
		return nil, err
	}

	j.updatedAt = j.createdAt
	return j, nil
}

// RestoreJob rebuilds a Job from persisted state. Repositories use it; business code
// creates jobs with NewJob.
func RestoreJob(
	id kernel.UUID,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
	siteID string,
	sources []kernel.SourceID,
	stats *Stats,
	errorMessage *string,
) (*Job, error) {
	j := &Job{isConstructed: true}

	if err := errors.Join(
		j.setID(id),
		status.Validate(),
		j.setSiteID(siteID),
		j.setSources(sources),
		j.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}
	if updatedAt.Before(createdAt) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"updatedAt",
			fmt.Errorf("%s is before createdAt %s", updatedAt, createdAt),
		)
	}

	j.status = status
	j.updatedAt = updatedAt.UTC()
	if stats != nil {
		restored := stats.Clone()
		j.stats = &restored
	}
	if errorMessage != nil {
		msg := *errorMessage
		j.errorMessage = &msg
	}
	return j, nil
}

// Validate ensures the Job instance was created through a constructor.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

// ID returns the job identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// Status returns the current job status.
func (j *Job) Status() Status {
	return j.status
}

// CreatedAt returns when the run started, in UTC.
func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

// UpdatedAt returns the last status change, in UTC.
func (j *Job) UpdatedAt() time.Time {
	return j.updatedAt
}

// SiteID returns the site the run ingests deliveries for.
func (j *Job) SiteID() string {
	return j.siteID
}

// Sources returns a copy of the partner sources of the run.
func (j *Job) Sources() []kernel.SourceID {
	return slices.Clone(j.sources)
}

// Input returns the run input as persisted and reported:
//
//	{"siteId": "site-1", "partnerSources": ["A", "B"]}
func (j *Job) Input() map[string]any {
	sources := make([]string, 0, len(j.sources))
	for _, source := range j.sources {
		sources = append(sources, source.String())
	}
	return map[string]any{
		"siteId":         j.siteID,
		"partnerSources": sources,
	}
}

// Stats returns a copy of the run statistics, or nil while the job is running.
func (j *Job) Stats() *Stats {
	if j.stats == nil {
		return nil
	}
	stats := j.stats.Clone()
	return &stats
}

// ErrorMessage returns the failure reason of a FAILED job, nil otherwise.
func (j *Job) ErrorMessage() *string {
	if j.errorMessage == nil {
		return nil
	}
	msg := *j.errorMessage
	return &msg
}

// Finish completes the job successfully with its final statistics.
//
// Returns an error if the job is not Processing, the stats break their invariants,
// or at is before the creation time.
func (j *Job) Finish(stats Stats, at time.Time) error {
	newStatus, err := j.status.Finish()
	if err != nil {
		return err
	}
	if err := j.complete(stats, at); err != nil {
		return err
	}

	j.status = newStatus
	j.errorMessage = nil
	return nil
}

// Fail completes the job as failed. Partial statistics gathered before the failure
// are kept alongside the reason.
func (j *Job) Fail(stats Stats, reason string, at time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	newStatus, err := j.status.Fail()
	if err != nil {
		return err
	}
	if err := j.complete(stats, at); err != nil {
		return err
	}

	j.status = newStatus
	j.errorMessage = &reason
	return nil
}

func (j *Job) complete(stats Stats, at time.Time) error {
	if err := stats.Validate(); err != nil {
		return err
	}
	if at.Before(j.createdAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"updatedAt",
			fmt.Errorf("%s is before createdAt %s", at, j.createdAt),
		)
	}

	recorded := stats.Clone()
	j.stats = &recorded
	j.updatedAt = at.UTC()
	return nil
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setSiteID(siteID string) error {
	if strings.TrimSpace(siteID) == "" {
		return errs.NewValueIsRequiredError("siteId")
	}
	j.siteID = siteID
	return nil
}

func (j *Job) setSources(sources []kernel.SourceID) error {
	if len(sources) == 0 {
		return errs.NewValueIsRequiredError("partnerSources")
	}
	for _, source := range sources {
		if err := source.Validate(); err != nil {
			return err
		}
	}
	j.sources = kernel.SortedSourceIDs(sources)
	return nil
}

func (j *Job) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	j.createdAt = createdAt.UTC()
	return nil
}
