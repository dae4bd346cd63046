// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version provides a single location to house the version information
// for the utilities provided in this repository.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// semanticAlphabet defines the allowed characters for the pre-release and
// build metadata portions of a semantic version string.
const semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// semverRE is a regular expression used to parse a semantic version string into
// its constituent parts.
var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*` +
	`[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

var (
	// Version is the application version per the semantic versioning 2.0.0
	// spec (https://semver.org/).
	//
	// It is defined as a variable so it can be overridden during the build
	// process with:
	// '-ldflags "-X github.com/btcspv/btcspv/internal/version.Version=fullsemver"'
	// if needed.
	//
	// It MUST be a full semantic version or the package will panic at
	// runtime.
	Version = "1.0.0-pre"

	// These fields are the individual semantic version components that define
	// the application version.  They are set via init by parsing Version.
	Major         uint
	Minor         uint
	Patch         uint
	PreRelease    string
	BuildMetadata string
)

// semVer houses the components of a parsed semantic version string.
type semVer struct {
	major, minor, patch uint
	preRelease, build   string
}

// parseUint converts the passed string to an unsigned integer or returns an
// error if it is invalid.
func parseUint(s string, fieldName string) (uint, error) {
	val, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("malformed semver %s: %w", fieldName, err)
	}
	return uint(val), nil
}

// checkSemString returns an error if the passed string contains characters that
// are not in the semantic version alphabet.
func checkSemString(s, fieldName string) error {
	for _, r := range s {
		if !strings.ContainsRune(semanticAlphabet, r) {
			return fmt.Errorf("malformed semver %s: %q invalid", fieldName, r)
		}
	}
	return nil
}

// parseSemVer parses the components of the provided semantic version string.
func parseSemVer(s string) (semVer, error) {
	m := semverRE.FindStringSubmatch(s)
	if m == nil {
		return semVer{}, fmt.Errorf("malformed version string %q: does not "+
			"conform to semver specification", s)
	}

	var v semVer
	var err error
	if v.major, err = parseUint(m[1], "major"); err != nil {
		return semVer{}, err
	}
	if v.minor, err = parseUint(m[2], "minor"); err != nil {
		return semVer{}, err
	}
	if v.patch, err = parseUint(m[3], "patch"); err != nil {
		return semVer{}, err
	}
	v.preRelease, v.build = m[4], m[5]
	if err := checkSemString(v.preRelease, "pre-release"); err != nil {
		return semVer{}, err
	}
	if err := checkSemString(v.build, "buildmetadata"); err != nil {
		return semVer{}, err
	}
	return v, nil
}

func init() {
	v, err := parseSemVer(Version)
	if err != nil {
		panic(err)
	}
	Major, Minor, Patch = v.major, v.minor, v.patch
	PreRelease, BuildMetadata = v.preRelease, v.build

	// Builds from a source checkout without explicit build metadata are
	// tagged with the commit they were built from.
	if BuildMetadata == "" {
		BuildMetadata = vcsCommitID()
		if BuildMetadata != "" {
			Version = fmt.Sprintf("%s+%s", Version, BuildMetadata)
		}
	}
}

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (https://semver.org/).
func String() string {
	return Version
}
