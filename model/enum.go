/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"fmt"
	"regexp"
	"strings"
)

// enumSeparators are stripped before comparing enumerated values: unicode
// en-dash, hyphen-minus and whitespace all vary between releases.
var enumSeparators = regexp.MustCompile(`–|-|\s`)

// normalizeEnumValue lowercases `s` and strips dashes and whitespace.
func normalizeEnumValue(s string) string {
	return enumSeparators.ReplaceAllString(strings.ToLower(s), "")
}

// matchEnum returns the member of `members` that `s` normalizes to.
func matchEnum(s string, members []string) (string, bool) {
	normalized := normalizeEnumValue(s)
	for _, member := range members {
		if normalizeEnumValue(member) == normalized {
			return member, true
		}
	}
	return "", false
}

// RosterSlot is one of the four roster slot classes.
type RosterSlot string

// Roster slots in Major League Soccer.
const (
	RosterSlotSenior         RosterSlot = "Senior Roster"
	RosterSlotSupplemental   RosterSlot = "Supplemental Roster"
	RosterSlotSupplemental31 RosterSlot = "Supplemental Spot 31"
	RosterSlotOffRoster      RosterSlot = "Off-Roster (Unavailable)"
)

var rosterSlots = []string{
	string(RosterSlotSenior),
	string(RosterSlotSupplemental),
	string(RosterSlotSupplemental31),
	string(RosterSlotOffRoster),
}

// ParseRosterSlot parses a roster slot. Unlike the other enumerations, an
// unrecognized slot is an error: every large table title must name a slot.
func ParseRosterSlot(s string) (RosterSlot, error) {
	member, ok := matchEnum(s, rosterSlots)
	if !ok {
		return "", fmt.Errorf("unrecognized roster slot %q", s)
	}
	return RosterSlot(member), nil
}

// RosterDesignation is a roster designation such as Designated Player or
// Homegrown Player. Values outside the enumerated set are carried through
// as-is; Known reports membership.
type RosterDesignation string

// Roster designations in Major League Soccer.
const (
	RosterDesignationYoungDP          RosterDesignation = "Young Designated Player"
	RosterDesignationTAM              RosterDesignation = "TAM Player"
	RosterDesignationDP               RosterDesignation = "Designated Player"
	RosterDesignationU22              RosterDesignation = "U22 Initiative"
	RosterDesignationHomegrown        RosterDesignation = "Homegrown Player"
	RosterDesignationGenerationAdidas RosterDesignation = "Generation adidas"
	RosterDesignationProfessionalDev  RosterDesignation = "Professional Player Development Role"
	RosterDesignationSpecialDiscovery RosterDesignation = "Special Discovery Player"
)

var rosterDesignations = []string{
	string(RosterDesignationYoungDP),
	string(RosterDesignationTAM),
	string(RosterDesignationDP),
	string(RosterDesignationU22),
	string(RosterDesignationHomegrown),
	string(RosterDesignationGenerationAdidas),
	string(RosterDesignationProfessionalDev),
	string(RosterDesignationSpecialDiscovery),
}

// ParseRosterDesignation parses a roster designation. Unrecognized values are
// returned trimmed but otherwise unchanged, with ok == false.
func ParseRosterDesignation(s string) (RosterDesignation, bool) {
	if member, ok := matchEnum(s, rosterDesignations); ok {
		return RosterDesignation(member), true
	}
	return RosterDesignation(strings.TrimSpace(s)), false
}

// Known reports whether the designation is in the enumerated set.
func (d RosterDesignation) Known() bool {
	_, ok := matchEnum(string(d), rosterDesignations)
	return ok
}

// CurrentStatus is the current status of a player, such as On Loan or
// Injured List. Values outside the enumerated set are carried through as-is.
type CurrentStatus string

// Current statuses of players in Major League Soccer.
const (
	CurrentStatusOnLoan      CurrentStatus = "Unavailable - On Loan"
	CurrentStatusSEI         CurrentStatus = "Unavailable - SEI"
	CurrentStatusP1ITC       CurrentStatus = "Unavailable - P1/ITC"
	CurrentStatusOther       CurrentStatus = "Unavailable - Other"
	CurrentStatusUnspecified CurrentStatus = "Unavailable"
	CurrentStatusOffBudget   CurrentStatus = "Off-Budget"
	CurrentStatusLoanPlayer  CurrentStatus = "Loan Player"
	CurrentStatusInjured     CurrentStatus = "Unavailable - Injured List"
)

var currentStatuses = []string{
	string(CurrentStatusOnLoan),
	string(CurrentStatusSEI),
	string(CurrentStatusP1ITC),
	string(CurrentStatusOther),
	string(CurrentStatusUnspecified),
	string(CurrentStatusOffBudget),
	string(CurrentStatusLoanPlayer),
	string(CurrentStatusInjured),
}

// ParseCurrentStatus parses a current status. Unrecognized values are
// returned trimmed but otherwise unchanged, with ok == false.
func ParseCurrentStatus(s string) (CurrentStatus, bool) {
	if member, ok := matchEnum(s, currentStatuses); ok {
		return CurrentStatus(member), true
	}
	return CurrentStatus(strings.TrimSpace(s)), false
}

// Known reports whether the status is in the enumerated set.
func (c CurrentStatus) Known() bool {
	_, ok := matchEnum(string(c), currentStatuses)
	return ok
}

// RosterConstructionModel is the league-defined roster configuration that
// dictates the menu of designations available to a team.
type RosterConstructionModel string

// Roster construction models in Major League Soccer.
const (
	RosterConstructionModelDP  RosterConstructionModel = "Designated Player Model"
	RosterConstructionModelU22 RosterConstructionModel = "U22 Initiative Player Model"
)

var rosterConstructionModels = []string{
	string(RosterConstructionModelDP),
	string(RosterConstructionModelU22),
}

// ParseRosterConstructionModel parses a roster construction model.
// Unrecognized values are returned trimmed but otherwise unchanged, with
// ok == false.
func ParseRosterConstructionModel(s string) (RosterConstructionModel, bool) {
	if member, ok := matchEnum(s, rosterConstructionModels); ok {
		return RosterConstructionModel(member), true
	}
	return RosterConstructionModel(strings.TrimSpace(s)), false
}

// Known reports whether the model is in the enumerated set.
func (m RosterConstructionModel) Known() bool {
	_, ok := matchEnum(string(m), rosterConstructionModels)
	return ok
}
