/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package rosterprofiles converts officially published MLS Roster Profile
// releases into structured team rosters. One PDF page holds one team; the
// pipeline per page is: content stream operators, annotated page string,
// parse tree, intermediate record, Team.
package rosterprofiles

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/h2non/filetype"
	"github.com/unidoc/unipdf/v3/common"
	pdf "github.com/unidoc/unipdf/v3/model"

	"github.com/american-soccer-analysis/mls-roster-profiles/extractor"
	"github.com/american-soccer-analysis/mls-roster-profiles/model"
)

// seniorRosterMarker gates parsing: a release mixes roster pages with covers
// and notes, and only pages showing a senior roster table are team pages.
const seniorRosterMarker = "SENIOR ROSTER"

// Release reading errors.
var (
	ErrNotPDF        = errors.New("input is not a PDF")
	ErrNoRosterPages = errors.New("document contains no roster pages")
)

// Release is one league-wide roster profile publication.
type Release struct {
	// ReleaseDate is the date the profiles were published, as printed on
	// every roster page.
	ReleaseDate model.Date `json:"release_date"`
	// Teams lists the teams in page order.
	Teams []*model.Team `json:"teams"`
}

// FromFile reads a release from the PDF at `path`.
func FromFile(path string) (*Release, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReadSeeker(f)
}

// FromBytes reads a release from PDF bytes.
func FromBytes(data []byte) (*Release, error) {
	if !filetype.Is(data, "pdf") {
		return nil, ErrNotPDF
	}
	return FromReadSeeker(bytes.NewReader(data))
}

// FromReadSeeker reads a release from a PDF byte stream. Pages are processed
// sequentially and independently; pages without a senior roster table are
// skipped. A roster page that fails to extract, parse or validate fails the
// whole document: a release is never partial.
func FromReadSeeker(rs io.ReadSeeker) (*Release, error) {
	reader, err := pdf.NewPdfReader(rs)
	if err != nil {
		return nil, err
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, err
	}

	grammar, err := NewGrammar()
	if err != nil {
		return nil, err
	}

	release := &Release{}
	haveDate := false

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page, err := reader.GetPage(pageNum)
		if err != nil {
			return nil, err
		}

		pageExtractor, err := extractor.New(page)
		if err != nil {
			return nil, err
		}
		text, err := pageExtractor.Extract()
		if err != nil {
			return nil, err
		}

		if !strings.Contains(text, seniorRosterMarker) {
			common.Log.Notice("page %d: no senior roster table, skipping", pageNum)
			continue
		}

		tree, err := grammar.Parse(text)
		if err != nil {
			return nil, err
		}
		profile, err := model.ProfileFromTree(tree)
		if err != nil {
			return nil, err
		}
		team, err := profile.ToTeam()
		if err != nil {
			return nil, err
		}

		if haveDate && !release.ReleaseDate.Equal(profile.ReleaseDate) {
			common.Log.Error("page %d: release date %s differs from %s seen earlier in the document",
				pageNum, profile.ReleaseDate, release.ReleaseDate)
		}
		release.ReleaseDate = profile.ReleaseDate
		haveDate = true

		release.Teams = append(release.Teams, team)
		common.Log.Info("page %d: parsed roster profile for %q (%d players)", pageNum, team.Name, len(team.Players))
	}

	if len(release.Teams) == 0 {
		return nil, ErrNoRosterPages
	}
	return release, nil
}
