package commands_test

import (
	"testing"

	"deliveryingest/internal/core/application/usecases/commands"
	"deliveryingest/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetchPartnerDeliveriesCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewFetchPartnerDeliveriesCommand(id, "site-1", []kernel.SourceID{"B", "A", "B"})

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.JobID())
	assert.Equal(t, "site-1", cmd.SiteID())
	assert.Equal(t, []kernel.SourceID{"A", "B"}, cmd.Sources())
}

func TestNewFetchPartnerDeliveriesCommand_InvalidJobID(t *testing.T) {
	_, err := commands.NewFetchPartnerDeliveriesCommand(kernel.UUID{}, "site-1", []kernel.SourceID{"A"})

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewFetchPartnerDeliveriesCommand_EmptySite(t *testing.T) {
	_, err := commands.NewFetchPartnerDeliveriesCommand(kernel.NewUUID(), "  ", []kernel.SourceID{"A"})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrSiteIDIsRequired)
}

func TestNewFetchPartnerDeliveriesCommand_NoSources(t *testing.T) {
	_, err := commands.NewFetchPartnerDeliveriesCommand(kernel.NewUUID(), "site-1", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrPartnerSourcesIsRequired)
}

func TestNewFetchPartnerDeliveriesCommand_InvalidEverything(t *testing.T) {
	_, err := commands.NewFetchPartnerDeliveriesCommand(kernel.UUID{}, "", []kernel.SourceID{})

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, commands.ErrSiteIDIsRequired)
	assert.ErrorIs(t, err, commands.ErrPartnerSourcesIsRequired)
}

func TestFetchPartnerDeliveriesCommand_ZeroValueIsInvalid(t *testing.T) {
	var cmd commands.FetchPartnerDeliveriesCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrFetchPartnerDeliveriesCommandIsNotConstructed)
}
