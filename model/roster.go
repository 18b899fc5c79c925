/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package model holds the roster data model: the intermediate record produced
// by the visitor, the final Team and Player records, and the cross-table
// enrichment that turns one into the other.
package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/unidoc/unipdf/v3/common"
	"golang.org/x/text/unicode/norm"
)

// Player is one roster entry of a team.
type Player struct {
	// ID is the external identifier, resolved by a downstream collaborator.
	ID *string `json:"id,omitempty"`
	// Name is the full name of the player.
	Name string `json:"name"`
	// RosterSlot is the slot the player occupies, from the table title.
	RosterSlot RosterSlot `json:"roster_slot"`
	// RosterDesignation is the designation carried by the player, if any.
	RosterDesignation *RosterDesignation `json:"roster_designation,omitempty"`
	// CurrentStatus is the player's current status, if any.
	CurrentStatus *CurrentStatus `json:"current_status,omitempty"`
	// ContractThrough is the contract end. Most often a year ("2025"), but
	// can also be a month ("July 2025").
	ContractThrough *string `json:"contract_through,omitempty"`
	// OptionYears lists the option years of the player's contract.
	OptionYears *string `json:"option_years,omitempty"`
	// PermanentTransferOption indicates whether a loan carries a permanent
	// transfer option. Nil for players who are not Loan Players.
	PermanentTransferOption *bool `json:"permanent_transfer_option,omitempty"`
	// InternationalSlot indicates whether the player occupies an
	// international roster slot.
	InternationalSlot bool `json:"international_slot"`
	// ConvertibleWithTam indicates whether a Designated Player can be bought
	// down with Targeted Allocation Money. Nil for non-Designated Players.
	ConvertibleWithTam *bool `json:"convertible_with_tam,omitempty"`
	// Unavailable indicates whether the player is unavailable for selection.
	Unavailable bool `json:"unavailable"`
	// CanadianInternationalSlotExemption indicates whether the player does
	// not count toward an international slot. Each Canadian club may
	// designate up to three players; nil when the club designates none.
	CanadianInternationalSlotExemption *bool `json:"canadian_international_slot_exemption,omitempty"`
}

// Team is the validated roster of one club.
type Team struct {
	// ID is the external identifier, resolved by a downstream collaborator.
	ID *string `json:"id,omitempty"`
	// Name is the full name of the team.
	Name string `json:"name"`
	// RosterConstructionModel is the team's league-defined roster
	// configuration, when the release states one.
	RosterConstructionModel *RosterConstructionModel `json:"roster_construction_model,omitempty"`
	// Players lists the team's roster entries.
	Players []*Player `json:"players"`
	// InternationalSlots is the number of international slots presently
	// available to the team, when the release states one.
	InternationalSlots *int `json:"international_slots,omitempty"`
	// GamAvailable is this season's General Allocation Money presently
	// available to the team, when the release states it.
	GamAvailable *int `json:"gam_available,omitempty"`
}

// SmallTableRow is one row of a single-column sidebar table. Row text may
// carry decorative suffixes ("+", "^") next to the player name.
type SmallTableRow struct {
	PlayerName *string `mapstructure:"player_name" json:"player_name,omitempty"`
}

// SmallTable is a single-column sidebar table, such as "International Slots
// (7)" or "Unavailable Players".
type SmallTable struct {
	Title string          `mapstructure:"table_title" json:"table_title" validate:"required"`
	Rows  []SmallTableRow `mapstructure:"small_table_row" json:"small_table_row"`
}

// LargeTableRow is one row of a roster table.
type LargeTableRow struct {
	PlayerName        string  `mapstructure:"player_name" json:"player_name" validate:"required"`
	RosterDesignation *string `mapstructure:"roster_designation" json:"roster_designation,omitempty"`
	CurrentStatus     *string `mapstructure:"current_status" json:"current_status,omitempty"`
	ContractThrough   *string `mapstructure:"contract_through" json:"contract_through,omitempty"`
	OptionYears       *string `mapstructure:"option_years" json:"option_years,omitempty"`
}

// LargeTable is a roster table; its title names the roster slot.
type LargeTable struct {
	Title string          `mapstructure:"table_title" json:"table_title" validate:"required"`
	Rows  []LargeTableRow `mapstructure:"large_table_row" json:"large_table_row" validate:"dive"`
}

// RosterProfile is the intermediate record assembled from one page's parse
// tree, before cross-table enrichment.
type RosterProfile struct {
	TeamName                string       `mapstructure:"team_name" json:"team_name" validate:"required"`
	ReleaseDate             Date         `mapstructure:"release_date" json:"release_date" validate:"required"`
	RosterConstructionModel *string      `mapstructure:"roster_construction_model" json:"roster_construction_model,omitempty"`
	GamAvailable            *int         `mapstructure:"gam_available" json:"gam_available,omitempty"`
	SmallTables             []SmallTable `mapstructure:"small_table" json:"small_tables" validate:"dive"`
	LargeTables             []LargeTable `mapstructure:"large_table" json:"large_tables" validate:"dive"`
}

var digits = regexp.MustCompile(`\d+`)

// ToTeam validates-by-construction and enriches the intermediate record into
// a Team.
func (rp *RosterProfile) ToTeam() (*Team, error) {
	players, err := rp.players()
	if err != nil {
		return nil, err
	}

	var rcm *RosterConstructionModel
	if rp.RosterConstructionModel != nil {
		m, known := ParseRosterConstructionModel(*rp.RosterConstructionModel)
		if !known {
			common.Log.Warning("unrecognized roster construction model %q for team %q", m, rp.TeamName)
		}
		rcm = &m
	}

	return &Team{
		Name:                    strings.TrimSpace(rp.TeamName),
		RosterConstructionModel: rcm,
		Players:                 players,
		InternationalSlots:      rp.internationalSlots(),
		GamAvailable:            rp.GamAvailable,
	}, nil
}

// internationalSlots extracts the slot count from the title of the
// "International …" small table, e.g. "International Slots (7)".
func (rp *RosterProfile) internationalSlots() *int {
	for _, table := range rp.SmallTables {
		if !hasTitlePrefix(table, "international") {
			continue
		}
		if match := digits.FindString(table.Title); match != "" {
			n, err := strconv.Atoi(match)
			if err == nil {
				return &n
			}
		}
	}
	return nil
}

// players builds and enriches one Player per large-table row.
func (rp *RosterProfile) players() ([]*Player, error) {
	var players []*Player
	for _, table := range rp.LargeTables {
		slot, err := ParseRosterSlot(table.Title)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", table.Title, err)
		}
		for _, row := range table.Rows {
			player := &Player{
				Name:            strings.TrimSpace(row.PlayerName),
				RosterSlot:      slot,
				ContractThrough: trimmed(row.ContractThrough),
				OptionYears:     trimmed(row.OptionYears),
			}
			if row.RosterDesignation != nil {
				d, known := ParseRosterDesignation(*row.RosterDesignation)
				if !known {
					common.Log.Warning("unrecognized roster designation %q for player %q", d, player.Name)
				}
				player.RosterDesignation = &d
			}
			if row.CurrentStatus != nil {
				s, known := ParseCurrentStatus(*row.CurrentStatus)
				if !known {
					common.Log.Warning("unrecognized current status %q for player %q", s, player.Name)
				}
				player.CurrentStatus = &s
			}

			rp.EnrichPlayer(player)
			players = append(players, player)
		}
	}
	return players, nil
}

// EnrichPlayer runs the cross-table enrichment steps on `player`, in order:
// international slots, Designated Player conversion, unavailability, loan
// hygiene. Enrichment is a function of the record and the player's base
// fields, so re-running it is a no-op.
func (rp *RosterProfile) EnrichPlayer(player *Player) {
	rp.enrichInternationalSlot(player)
	rp.enrichDesignatedPlayer(player)
	rp.enrichUnavailable(player)
	rp.applyPermanentTransferOption(player)
}

// enrichInternationalSlot flags players occupying an international slot. A
// "+" next to a name marks a Canadian international slot exemption; once any
// row carries one, absence of the mark becomes meaningful for every player.
func (rp *RosterProfile) enrichInternationalSlot(player *Player) {
	for _, table := range rp.SmallTables {
		if !hasTitlePrefix(table, "international") {
			continue
		}

		for _, row := range table.Rows {
			if strings.Contains(rowText(row), "+") {
				exempt := false
				player.CanadianInternationalSlotExemption = &exempt
				break
			}
		}

		matches := matchingRows(table, player.Name)
		warnMatchCount(matches, player.Name, table.Title)
		if len(matches) > 0 {
			player.InternationalSlot = true
			if strings.Contains(matches[0], "+") {
				exempt := true
				player.CanadianInternationalSlotExemption = &exempt
			}
		}
	}
}

// enrichDesignatedPlayer marks Designated Players as convertible with
// Targeted Allocation Money unless the designated-player table carries a "^"
// next to the player's name.
func (rp *RosterProfile) enrichDesignatedPlayer(player *Player) {
	if player.RosterDesignation == nil || *player.RosterDesignation != RosterDesignationDP {
		return
	}

	convertible := true
	player.ConvertibleWithTam = &convertible

	for _, table := range rp.SmallTables {
		if !hasTitlePrefix(table, "designated") {
			continue
		}
		matches := matchingRows(table, player.Name)
		warnMatchCount(matches, player.Name, table.Title)
		for _, match := range matches {
			if strings.Contains(match, "^") {
				notConvertible := false
				player.ConvertibleWithTam = &notConvertible
			}
		}
	}
}

// enrichUnavailable marks players listed in an "Unavailable …" small table.
func (rp *RosterProfile) enrichUnavailable(player *Player) {
	for _, table := range rp.SmallTables {
		if !hasTitlePrefix(table, "unavailable") {
			continue
		}
		matches := matchingRows(table, player.Name)
		warnMatchCount(matches, player.Name, table.Title)
		if len(matches) > 0 {
			player.Unavailable = true
		}
	}
}

// applyPermanentTransferOption keeps the permanent transfer option only for
// Loan Players; for everyone else the flag is not applicable.
func (rp *RosterProfile) applyPermanentTransferOption(player *Player) {
	if player.CurrentStatus != nil && *player.CurrentStatus == CurrentStatusLoanPlayer {
		hasOption := player.OptionYears != nil && strings.HasPrefix(strings.TrimSpace(*player.OptionYears), "PT")
		player.PermanentTransferOption = &hasOption
		return
	}
	player.PermanentTransferOption = nil
}

// warnMatchCount surfaces enrichment ambiguity: anything other than exactly
// one row matching the player is reported. The weakest consistent value is
// kept either way.
func warnMatchCount(matches []string, playerName, title string) {
	switch {
	case len(matches) == 0:
		common.Log.Warning("no rows match player %q in table %q", playerName, title)
	case len(matches) > 1:
		common.Log.Warning("%d rows match player %q in table %q", len(matches), playerName, title)
	}
}

// trimmed returns a pointer to the whitespace-trimmed value of s, or nil if
// s is nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// hasTitlePrefix reports whether the table title starts with `prefix`,
// case-insensitively.
func hasTitlePrefix(table SmallTable, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(table.Title), prefix)
}

// matchingRows returns the text of every row whose player name starts with
// the player's name, after case folding and unicode normalization. Small
// table rows may carry decorative suffixes, so the match is a prefix match.
func matchingRows(table SmallTable, playerName string) []string {
	name := matchKey(playerName)
	if name == "" {
		return nil
	}
	var matches []string
	for _, row := range table.Rows {
		text := rowText(row)
		if strings.HasPrefix(matchKey(text), name) {
			matches = append(matches, text)
		}
	}
	return matches
}

// matchKey folds a name for comparison.
func matchKey(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// rowText returns the row's player name, empty when unset.
func rowText(row SmallTableRow) string {
	if row.PlayerName == nil {
		return ""
	}
	return *row.PlayerName
}
