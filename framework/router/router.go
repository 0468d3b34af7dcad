package router

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"technotes/framework"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type pathSegment struct {
	name    string
	isParam bool
}

// Route is a compiled path pattern such as "/notes/[id]". Bracketed segments
// capture one path segment each.
type Route struct {
	pattern  string
	segments []pathSegment
}

func Compile(pattern string) (Route, error) {
	parts := splitPathSegments(pattern)
	segments := make([]pathSegment, 0, len(parts))
	seen := make(map[string]struct{}, 2)

	for _, part := range parts {
		name, isParam, err := parseWildcardSegment(part)
		if err != nil {
			return Route{}, fmt.Errorf("route pattern %q: %w", pattern, err)
		}
		if !isParam {
			segments = append(segments, pathSegment{name: part})
			continue
		}
		if _, ok := seen[name]; ok {
			return Route{}, fmt.Errorf("route pattern %q: duplicate wildcard %q", pattern, name)
		}
		seen[name] = struct{}{}
		segments = append(segments, pathSegment{name: name, isParam: true})
	}

	return Route{pattern: pattern, segments: segments}, nil
}

func MustCompile(pattern string) Route {
	route, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return route
}

func (route Route) Pattern() string {
	return route.pattern
}

func (route Route) hasParam(name string) bool {
	for _, segment := range route.segments {
		if segment.isParam && segment.name == name {
			return true
		}
	}
	return false
}

func (route Route) Match(requestPath string) (map[string]string, bool) {
	requestSegments := splitPathSegments(requestPath)
	if len(route.segments) != len(requestSegments) {
		return nil, false
	}

	params := make(map[string]string, 2)
	for idx, segment := range route.segments {
		requestValue := requestSegments[idx]
		if segment.isParam {
			params[segment.name] = requestValue
			continue
		}
		if segment.name != requestValue {
			return nil, false
		}
	}

	return params, true
}

func Exact(pattern string) framework.ParamsParser[framework.EmptyParams] {
	route := MustCompile(pattern)
	return func(requestPath string) (framework.EmptyParams, bool) {
		_, ok := route.Match(requestPath)
		return framework.EmptyParams{}, ok
	}
}

// ID parses the [id] wildcard of pattern as a positive integer. It panics when
// pattern has no [id] segment.
func ID(pattern string) framework.ParamsParser[framework.IDParams] {
	route := MustCompile(pattern)
	if !route.hasParam("id") {
		panic(fmt.Sprintf("route pattern %q has no [id] segment", route.Pattern()))
	}
	return func(requestPath string) (framework.IDParams, bool) {
		params, ok := route.Match(requestPath)
		if !ok {
			return framework.IDParams{}, false
		}

		id, err := strconv.Atoi(params["id"])
		if err != nil || id < 1 {
			return framework.IDParams{}, false
		}
		return framework.IDParams{ID: id}, true
	}
}

func parseWildcardSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}
		return name, true, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
