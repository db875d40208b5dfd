package resource

import (
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// Deployment placeholder tokens. Their presence is checked, never their
// resolved value.
const (
	PlaceholderVersion      = "#{version}"
	PlaceholderDate         = "#{date}"
	PlaceholderOrganization = "#{organization}"
)

// validStatuses are the publication statuses a resource may declare.
var validStatuses = map[string]bool{
	"draft":   true,
	"active":  true,
	"retired": true,
	"unknown": true,
}

// checkMetadata applies the conventions shared by all definition resources:
// a canonical url, the version and date placeholders and a valid status.
func checkMetadata(ctx *router.Context, res *fhir.Resource, rule string) []dsflint.Item {
	var items []dsflint.Item
	item := func(b *dsflint.ItemBuilder, msg string) {
		items = append(items, b.Message(msg).In(res.File).Rule(rule).Build())
	}

	if res.URL == "" {
		item(dsflint.Error(dsflint.KindStructure),
			fmt.Sprintf("%s declares no canonical url", res.Kind))
	} else {
		item(dsflint.Success(dsflint.KindStructure),
			fmt.Sprintf("%s declares canonical url %s", res.Kind, res.URL))
	}

	switch res.Version {
	case "":
		item(dsflint.Warning(dsflint.KindConfiguration),
			fmt.Sprintf("%s declares no version", res.Kind))
	case PlaceholderVersion:
		item(dsflint.Success(dsflint.KindPlaceholder),
			fmt.Sprintf("%s version uses the %s placeholder", res.Kind, PlaceholderVersion))
	default:
		item(dsflint.Warning(dsflint.KindPlaceholder),
			fmt.Sprintf("%s version %q should be the %s placeholder", res.Kind, res.Version, PlaceholderVersion))
	}

	if date := res.Tree.ValueAt("date"); date != "" && date != PlaceholderDate {
		item(dsflint.Warning(dsflint.KindPlaceholder),
			fmt.Sprintf("%s date %q should be the %s placeholder", res.Kind, date, PlaceholderDate))
	}

	if !validStatuses[res.Status] {
		item(dsflint.Error(dsflint.KindStructure),
			fmt.Sprintf("%s declares invalid status %q", res.Kind, res.Status))
	} else {
		item(dsflint.Success(dsflint.KindStructure),
			fmt.Sprintf("%s declares status %q", res.Kind, res.Status))
	}

	return items
}
