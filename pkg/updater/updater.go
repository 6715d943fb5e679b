// Package updater checks GitHub for a newer csel release.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultURL is the latest-release endpoint of the project
const DefaultURL = "https://api.github.com/repos/Dicklesworthstone/chipselect/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a GitHub latest-release endpoint
type Checker struct {
	Client *http.Client
	URL    string
}

// NewChecker returns a checker with a short timeout so it never stalls the CLI
func NewChecker() *Checker {
	return &Checker{
		Client: &http.Client{Timeout: 2 * time.Second},
		URL:    DefaultURL,
	}
}

// Check returns the latest release and whether it is newer than current
func (c *Checker) Check(ctx context.Context, current string) (Release, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Release{}, false, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Release{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, false, fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Release{}, false, fmt.Errorf("decode release: %w", err)
	}

	return rel, CompareVersions(rel.TagName, current) > 0, nil
}

// CompareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Versions are dot-separated numbers with an optional "v" prefix; a
// pre-release suffix ("-rc1") sorts before the plain version.
func CompareVersions(v1, v2 string) int {
	a, preA := splitVersion(v1)
	b, preB := splitVersion(v2)

	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}

	switch {
	case preA == preB:
		return 0
	case preA == "":
		return 1
	case preB == "":
		return -1
	case preA > preB:
		return 1
	}
	return -1
}

func splitVersion(v string) ([]int, string) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	pre := ""
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v, pre = v[:i], v[i+1:]
	}
	var parts []int
	for _, s := range strings.Split(v, ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			n = 0
		}
		parts = append(parts, n)
	}
	return parts, pre
}
