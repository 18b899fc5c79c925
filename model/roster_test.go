/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unipdf/v3/common"
)

func strPtr(s string) *string { return &s }

func smallTable(title string, names ...string) SmallTable {
	table := SmallTable{Title: title}
	for _, name := range names {
		table.Rows = append(table.Rows, SmallTableRow{PlayerName: strPtr(name)})
	}
	return table
}

// TestDesignatedPlayerCaret: a caret next to a Designated Player's name in
// the designated-players table marks them as not convertible with TAM.
func TestDesignatedPlayerCaret(t *testing.T) {
	rp := &RosterProfile{
		SmallTables: []SmallTable{smallTable("Designated Players", "Jane Doe ^", "John Roe")},
	}

	jane := RosterDesignationDP
	player := &Player{Name: "Jane Doe", RosterDesignation: &jane}
	rp.EnrichPlayer(player)
	require.NotNil(t, player.ConvertibleWithTam)
	assert.False(t, *player.ConvertibleWithTam)

	john := RosterDesignationDP
	other := &Player{Name: "John Roe", RosterDesignation: &john}
	rp.EnrichPlayer(other)
	require.NotNil(t, other.ConvertibleWithTam)
	assert.True(t, *other.ConvertibleWithTam)

	// Non-Designated Players are never convertible nor not-convertible.
	tam := RosterDesignationTAM
	neither := &Player{Name: "Jane Doe", RosterDesignation: &tam}
	rp.EnrichPlayer(neither)
	assert.Nil(t, neither.ConvertibleWithTam)
}

// TestInternationalSlots: the slot count comes from the table title, the
// per-player flag from a prefix match, and the Canadian exemption from "+".
func TestInternationalSlots(t *testing.T) {
	rp := &RosterProfile{
		SmallTables: []SmallTable{smallTable("International Slots (7)", "Alphonso Davies +", "Other Guy")},
	}

	slots := rp.internationalSlots()
	require.NotNil(t, slots)
	assert.Equal(t, 7, *slots)

	davies := &Player{Name: "Alphonso Davies"}
	rp.EnrichPlayer(davies)
	assert.True(t, davies.InternationalSlot)
	require.NotNil(t, davies.CanadianInternationalSlotExemption)
	assert.True(t, *davies.CanadianInternationalSlotExemption)

	other := &Player{Name: "Other Guy"}
	rp.EnrichPlayer(other)
	assert.True(t, other.InternationalSlot)
	require.NotNil(t, other.CanadianInternationalSlotExemption)
	assert.False(t, *other.CanadianInternationalSlotExemption)

	domestic := &Player{Name: "Local Hero"}
	rp.EnrichPlayer(domestic)
	assert.False(t, domestic.InternationalSlot)
	require.NotNil(t, domestic.CanadianInternationalSlotExemption)
	assert.False(t, *domestic.CanadianInternationalSlotExemption)
}

// TestInternationalSlotsNoExemptions: without any "+" rows the exemption is
// not applicable and stays nil for everyone.
func TestInternationalSlotsNoExemptions(t *testing.T) {
	rp := &RosterProfile{
		SmallTables: []SmallTable{smallTable("International Roster Slots", "Somebody")},
	}
	assert.Nil(t, rp.internationalSlots())

	player := &Player{Name: "Somebody"}
	rp.EnrichPlayer(player)
	assert.True(t, player.InternationalSlot)
	assert.Nil(t, player.CanadianInternationalSlotExemption)
}

// TestPermanentTransferOption: the option is meaningful only for Loan
// Players.
func TestPermanentTransferOption(t *testing.T) {
	rp := &RosterProfile{}

	loan := CurrentStatusLoanPlayer
	player := &Player{Name: "A", CurrentStatus: &loan, OptionYears: strPtr("PT 2026")}
	rp.EnrichPlayer(player)
	require.NotNil(t, player.PermanentTransferOption)
	assert.True(t, *player.PermanentTransferOption)

	offBudget := CurrentStatusOffBudget
	player.CurrentStatus = &offBudget
	rp.EnrichPlayer(player)
	assert.Nil(t, player.PermanentTransferOption)

	noOption := &Player{Name: "B", CurrentStatus: &loan, OptionYears: strPtr("2026")}
	rp.EnrichPlayer(noOption)
	require.NotNil(t, noOption.PermanentTransferOption)
	assert.False(t, *noOption.PermanentTransferOption)
}

// TestEnrichmentMonotonic: enriching an already-enriched player changes
// nothing.
func TestEnrichmentMonotonic(t *testing.T) {
	rp := &RosterProfile{
		SmallTables: []SmallTable{
			smallTable("Designated Players", "Jane Doe ^"),
			smallTable("International Slots (3)", "Jane Doe +"),
			smallTable("Unavailable Players", "Jane Doe"),
		},
	}

	jane := RosterDesignationDP
	loan := CurrentStatusLoanPlayer
	player := &Player{Name: "Jane Doe", RosterDesignation: &jane, CurrentStatus: &loan, OptionYears: strPtr("PT 2026")}

	rp.EnrichPlayer(player)
	once := *player
	rp.EnrichPlayer(player)
	assert.Equal(t, once, *player)
}

// warningCapture records Warning calls for assertions.
type warningCapture struct {
	warnings []string
}

func (l *warningCapture) Error(format string, args ...interface{})  {}
func (l *warningCapture) Notice(format string, args ...interface{}) {}
func (l *warningCapture) Info(format string, args ...interface{})   {}
func (l *warningCapture) Debug(format string, args ...interface{})  {}
func (l *warningCapture) Trace(format string, args ...interface{})  {}

func (l *warningCapture) Warning(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *warningCapture) IsLogLevel(level common.LogLevel) bool {
	return level <= common.LogLevelWarning
}

// TestEnrichmentMatchWarnings: zero and multiple matching rows are both
// reported; exactly one match is silent.
func TestEnrichmentMatchWarnings(t *testing.T) {
	capture := &warningCapture{}
	common.SetLogger(capture)
	defer common.SetLogger(common.DummyLogger{})

	rp := &RosterProfile{
		SmallTables: []SmallTable{smallTable("Unavailable Players", "John Smith", "John Smith Jr.")},
	}

	// Both rows prefix-match; the first one wins, with a warning.
	ambiguous := &Player{Name: "John Smith"}
	rp.EnrichPlayer(ambiguous)
	assert.True(t, ambiguous.Unavailable)
	require.Len(t, capture.warnings, 1)
	assert.Contains(t, capture.warnings[0], "2 rows match")

	// No row matches; the default is kept, with a warning.
	unlisted := &Player{Name: "Jane Poe"}
	rp.EnrichPlayer(unlisted)
	assert.False(t, unlisted.Unavailable)
	require.Len(t, capture.warnings, 2)
	assert.Contains(t, capture.warnings[1], "no rows match")

	// A single match is not ambiguous.
	capture.warnings = nil
	listed := &Player{Name: "John Smith Jr."}
	rp.EnrichPlayer(listed)
	assert.True(t, listed.Unavailable)
	assert.Empty(t, capture.warnings)
}

// TestAccentInsensitiveMatch: names in small tables match across composed
// and decomposed accents.
func TestAccentInsensitiveMatch(t *testing.T) {
	rp := &RosterProfile{
		// The row carries "a" plus U+0301 combining acute, the player the
		// precomposed form.
		SmallTables: []SmallTable{smallTable("Unavailable Players", "Luis Suárez")},
	}
	player := &Player{Name: "Luis Suárez"}
	rp.EnrichPlayer(player)
	assert.True(t, player.Unavailable)
}

// TestIntermediateRecordToTeam is the intermediate-JSON to Team path.
func TestIntermediateRecordToTeam(t *testing.T) {
	data := `{
		"team_name": "Inter Miami CF",
		"release_date": "2025-07-07",
		"small_tables": [
			{"table_title": "Unavailable Players", "small_table_row": [{"player_name": "Luis Suárez"}]}
		],
		"large_tables": [
			{"table_title": "Senior Roster", "large_table_row": [
				{"player_name": "Luis Suárez", "current_status": "Unavailable - Injured List"}
			]}
		]
	}`

	var rp RosterProfile
	require.NoError(t, json.Unmarshal([]byte(data), &rp))
	assert.Equal(t, "2025-07-07", rp.ReleaseDate.String())

	team, err := rp.ToTeam()
	require.NoError(t, err)

	assert.Equal(t, "Inter Miami CF", team.Name)
	assert.Nil(t, team.InternationalSlots)
	assert.Nil(t, team.RosterConstructionModel)
	assert.Nil(t, team.GamAvailable)

	require.Len(t, team.Players, 1)
	player := team.Players[0]
	assert.Equal(t, "Luis Suárez", player.Name)
	assert.Equal(t, RosterSlotSenior, player.RosterSlot)
	require.NotNil(t, player.CurrentStatus)
	assert.Equal(t, CurrentStatusInjured, *player.CurrentStatus)
	assert.True(t, player.Unavailable)
	assert.Nil(t, player.ConvertibleWithTam)
	assert.Nil(t, player.PermanentTransferOption)
	assert.False(t, player.InternationalSlot)
	assert.Nil(t, player.CanadianInternationalSlotExemption)
}

// TestToTeamBadSlot: a large table whose title is not a roster slot fails
// the page.
func TestToTeamBadSlot(t *testing.T) {
	rp := &RosterProfile{
		TeamName:    "Somewhere FC",
		LargeTables: []LargeTable{{Title: "Trialists", Rows: []LargeTableRow{{PlayerName: "X"}}}},
	}
	_, err := rp.ToTeam()
	assert.Error(t, err)
}
