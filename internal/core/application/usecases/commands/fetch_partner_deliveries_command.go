package commands

import (
	"errors"
	"strings"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/guard"
)

var (
	ErrFetchPartnerDeliveriesCommandIsNotConstructed = errors.New(
		"FetchPartnerDeliveriesCommand must be created via NewFetchPartnerDeliveriesCommand constructor",
	)
	ErrSiteIDIsRequired         = errors.New("site id is required")
	ErrPartnerSourcesIsRequired = errors.New("at least one partner source is required")
)

// FetchPartnerDeliveriesCommand requests one ingestion run: fetch every partner
// source, normalize and score the records, and persist them under a new job.
//
// Example:
//
//	cmd, err := NewFetchPartnerDeliveriesCommand(kernel.NewUUID(), "site-1",
//	    []kernel.SourceID{"logistics-a", "logistics-b"})
//	if err != nil {
//	    return fmt.Errorf("invalid ingestion request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type FetchPartnerDeliveriesCommand struct { //nolint:recvcheck //using for validation
	jobID   kernel.UUID
	siteID  string
	sources []kernel.SourceID

	guard guard.ConstructorGuard
}

// NewFetchPartnerDeliveriesCommand validates the run input. Sources are de-duplicated
// and sorted so the run processes them in a reproducible order.
func NewFetchPartnerDeliveriesCommand(
	jobID kernel.UUID,
	siteID string,
	sources []kernel.SourceID,
) (FetchPartnerDeliveriesCommand, error) {
	command := FetchPartnerDeliveriesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setJobID(jobID),
		command.setSiteID(siteID),
		command.setSources(sources),
	); err != nil {
		return FetchPartnerDeliveriesCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c FetchPartnerDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrFetchPartnerDeliveriesCommandIsNotConstructed)
}

// JobID returns the identifier the run's job is created with.
func (c FetchPartnerDeliveriesCommand) JobID() kernel.UUID {
	return c.jobID
}

// SiteID returns the site the deliveries are ingested for.
func (c FetchPartnerDeliveriesCommand) SiteID() string {
	return c.siteID
}

// Sources returns the partner sources in processing order.
func (c FetchPartnerDeliveriesCommand) Sources() []kernel.SourceID {
	return kernel.SortedSourceIDs(c.sources)
}

func (c *FetchPartnerDeliveriesCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *FetchPartnerDeliveriesCommand) setSiteID(siteID string) error {
	if strings.TrimSpace(siteID) == "" {
		return ErrSiteIDIsRequired
	}

	c.siteID = siteID
	return nil
}

func (c *FetchPartnerDeliveriesCommand) setSources(sources []kernel.SourceID) error {
	if len(sources) == 0 {
		return ErrPartnerSourcesIsRequired
	}
	for _, source := range sources {
		if err := source.Validate(); err != nil {
			return err
		}
	}

	c.sources = kernel.SortedSourceIDs(sources)
	return nil
}
