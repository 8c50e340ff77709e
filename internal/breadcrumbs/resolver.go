package breadcrumbs

import "strings"

const (
	DefaultURLSuffix = ".html"

	HomeText = "Home"
	HomeHref = "/"

	// DeadLink is the target of a crumb without a landing page.
	DeadLink = "#"
)

// Resolver turns a raw category path fragment into a navigable URL.
type Resolver interface {
	Resolve(fragment string) string
}

// SuffixResolver resolves fragments to site-relative URLs by prefixing
// BasePath and appending Suffix.
type SuffixResolver struct {
	BasePath string
	Suffix   string
}

func NewSuffixResolver(basePath, suffix string) SuffixResolver {
	return SuffixResolver{
		BasePath: strings.TrimRight(basePath, "/"),
		Suffix:   suffix,
	}
}

func (r SuffixResolver) Resolve(fragment string) string {
	return r.BasePath + "/" + strings.TrimLeft(fragment, "/") + r.Suffix
}

// Href resolves fragment, falling back to DeadLink when there is nothing to
// resolve.
func Href(r Resolver, fragment string) string {
	if fragment == "" {
		return DeadLink
	}
	return r.Resolve(fragment)
}
