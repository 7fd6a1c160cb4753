package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Type is an optional request category that activates an extra step group.
type Type string

const (
	TypeProduct   Type = "Product"
	TypeMarketing Type = "Marketing"
)

// KnownTypes lists the request types in the order the form offers them.
var KnownTypes = []Type{TypeMarketing, TypeProduct}

// ParseType returns the Type matching name exactly.
func ParseType(name string) (Type, bool) {
	for _, t := range KnownTypes {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// GroupName identifies a display group of steps.
type GroupName string

const (
	GroupCommon    GroupName = "Common"
	GroupProduct   GroupName = "Product"
	GroupMarketing GroupName = "Marketing"
	GroupFinal     GroupName = "Final"
)

// Group is an ordered list of steps shown under one heading.
type Group struct {
	Name  GroupName `json:"name"`
	Steps []string  `json:"steps"`
}

// ErrInvalidCatalog indicates a catalog definition that cannot key a checklist.
var ErrInvalidCatalog = errors.New("invalid step catalog")

// Catalog is the ordered definition of workflow steps per request type.
// Step names are the keys of a project's checklist.
type Catalog struct {
	CommonSteps    []string `yaml:"common_steps" json:"common_steps"`
	ProductSteps   []string `yaml:"product_steps" json:"product_steps"`
	MarketingSteps []string `yaml:"marketing_steps" json:"marketing_steps"`
	FinalStep      string   `yaml:"final_step" json:"final_step"`
}

// Default returns the localization request workflow.
func Default() Catalog {
	return Catalog{
		CommonSteps: []string{
			"Verify if the request is complete",
			"Create folder for project in shared location",
			"Generate names",
			"Rename request",
		},
		ProductSteps: []string{
			"Create inclusion list",
			"Export XML files from Iris",
			"Create Wordbee order",
			"Add details from Wordbee order into the request",
			"Provide quote to requester once Hiromi confirms",
			"Once requester confirms convert the request to project",
			"Set it to in progress",
			"Import translated files into Iris",
			"Create ticket for Wendy to import the translated content",
			"Close request",
		},
		MarketingSteps: []string{
			"Convert the URLs to the proper format",
			"Create the AEM project",
			"Add the correct pages to the AEM project",
			"Export the XML files from the AEM project",
			"Clean the exported files (remove unnecessary files)",
			"Re-zip the files",
			"Create Wordbee order",
			"Create the AEM Linguistic Review Links",
			"Add details from Wordbee order into the request",
			"Provide quote to requester once Hiromi confirms",
			"Once requester confirms convert the request to project",
			"Set it to in progress",
			"Import translated files into AEM",
			"Perform a functional review",
			"Create a card for the linguistic reviewer",
			"Accept translations",
			"Close the request",
		},
		FinalStep: "Make sure the shared folder is properly updated",
	}
}

// Validate checks that every group is free of blanks and duplicates and that
// the final step is set and not reused by another group.
func (c Catalog) Validate() error {
	if strings.TrimSpace(c.FinalStep) == "" {
		return fmt.Errorf("%w: final step is required", ErrInvalidCatalog)
	}
	groups := map[GroupName][]string{
		GroupCommon:    c.CommonSteps,
		GroupProduct:   c.ProductSteps,
		GroupMarketing: c.MarketingSteps,
	}
	common := make(map[string]bool, len(c.CommonSteps))
	for _, step := range c.CommonSteps {
		common[step] = true
	}
	for name, steps := range groups {
		seen := make(map[string]bool, len(steps))
		for _, step := range steps {
			if strings.TrimSpace(step) == "" {
				return fmt.Errorf("%w: blank step in %s group", ErrInvalidCatalog, name)
			}
			if seen[step] {
				return fmt.Errorf("%w: duplicate step %q in %s group", ErrInvalidCatalog, step, name)
			}
			seen[step] = true
			if step == c.FinalStep {
				return fmt.Errorf("%w: final step %q repeated in %s group", ErrInvalidCatalog, step, name)
			}
			if name != GroupCommon && common[step] {
				return fmt.Errorf("%w: common step %q repeated in %s group", ErrInvalidCatalog, step, name)
			}
		}
	}
	return nil
}

// All returns every step name once, in canonical display order.
func (c Catalog) All() []string {
	return dedupe(c.CommonSteps, c.ProductSteps, c.MarketingSteps, []string{c.FinalStep})
}

// Contains reports whether step is a known step name.
func (c Catalog) Contains(step string) bool {
	for _, name := range c.All() {
		if name == step {
			return true
		}
	}
	return false
}

// Groups returns the display groups for a project with the given types.
// Optional groups appear only when their type is active.
func (c Catalog) Groups(types []Type) []Group {
	groups := []Group{{Name: GroupCommon, Steps: c.CommonSteps}}
	if HasType(types, TypeProduct) {
		groups = append(groups, Group{Name: GroupProduct, Steps: c.ProductSteps})
	}
	if HasType(types, TypeMarketing) {
		groups = append(groups, Group{Name: GroupMarketing, Steps: c.MarketingSteps})
	}
	return append(groups, Group{Name: GroupFinal, Steps: []string{c.FinalStep}})
}

// Active returns the distinct step names that count toward completion for
// the given types.
func (c Catalog) Active(types []Type) []string {
	var lists [][]string
	for _, g := range c.Groups(types) {
		lists = append(lists, g.Steps)
	}
	return dedupe(lists...)
}

// HasType reports whether t is in types.
func HasType(types []Type, t Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func dedupe(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, step := range list {
			if seen[step] {
				continue
			}
			seen[step] = true
			out = append(out, step)
		}
	}
	return out
}
