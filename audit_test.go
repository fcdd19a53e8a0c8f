package docsite_test

import (
	"testing"

	"github.com/fwojciec/docsite"
	"github.com/stretchr/testify/assert"
)

func TestPageReport_Issues(t *testing.T) {
	t.Parallel()

	t.Run("reports nothing for a healthy page", func(t *testing.T) {
		t.Parallel()

		r := &docsite.PageReport{HasContent: true, HasSidebar: true, Headings: 3}

		assert.Empty(t, r.Issues())
	})

	t.Run("reports missing regions and duplicates", func(t *testing.T) {
		t.Parallel()

		r := &docsite.PageReport{Duplicates: []string{"example"}}

		assert.Equal(t, []string{
			"no content region",
			"no sidebar region",
			"duplicate anchor #example",
		}, r.Issues())
	})

	t.Run("reports only the fetch failure when fetching failed", func(t *testing.T) {
		t.Parallel()

		r := &docsite.PageReport{Err: assert.AnError}

		issues := r.Issues()

		assert.Len(t, issues, 1)
		assert.Contains(t, issues[0], "fetch failed")
	})

	t.Run("ignores regions on excluded pages", func(t *testing.T) {
		t.Parallel()

		r := &docsite.PageReport{Excluded: true}

		assert.Empty(t, r.Issues())
	})
}

func TestAuditReport(t *testing.T) {
	t.Parallel()

	healthy := &docsite.PageReport{URL: "a", HasContent: true, HasSidebar: true}
	broken := &docsite.PageReport{URL: "b", Err: assert.AnError}
	dup := &docsite.PageReport{URL: "c", HasContent: true, HasSidebar: true, Duplicates: []string{"x"}}

	report := &docsite.AuditReport{Pages: []*docsite.PageReport{healthy, broken, dup}}

	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, []*docsite.PageReport{broken, dup}, report.WithIssues())
}
