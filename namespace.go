package vogprep

import (
	"fmt"
	"strings"
)

// Namespace distinguishes the two viral ortholog-group classification
// schemes. VOG and pVOG group identifiers share the same string shape but
// name entirely unrelated groups, so every table and every group id
// carries its namespace. Crossing the two lineages is a configuration
// fault that aborts the run, not a lookup miss.
type Namespace int

const (
	VOG Namespace = iota
	PVOG
)

func (ns Namespace) String() string {
	switch ns {
	case VOG:
		return "VOG"
	case PVOG:
		return "pVOG"
	}
	return fmt.Sprintf("Namespace(%d)", int(ns))
}

// ParseNamespace maps a command line namespace selector to a Namespace.
func ParseNamespace(s string) (Namespace, error) {
	switch strings.ToLower(s) {
	case "vog":
		return VOG, nil
	case "pvog":
		return PVOG, nil
	}
	return 0, fmt.Errorf("Unknown namespace '%s': must be 'vog' or 'pvog'.", s)
}

// GroupID names one ortholog group within one namespace. The namespace is
// part of the identity: a VOG "VOG0001" and a pVOG "VOG0001" are distinct
// groups even though the id strings collide.
type GroupID struct {
	NS Namespace
	ID string
}

func (g GroupID) String() string {
	return fmt.Sprintf("%s:%s", g.NS, g.ID)
}

// NamespaceError reports an identifier resolved against the wrong
// namespace's table. Unlike a membership miss, this always aborts the
// run: it means the VOG and pVOG lineages have been crossed somewhere
// upstream.
type NamespaceError struct {
	Table Namespace // the namespace the table was built for
	Asked Namespace // the namespace the caller asked to resolve in
	ID    string
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf(
		"Identifier '%s' was resolved in the %s namespace against a table "+
			"built for %s. The VOG and pVOG lineages have been crossed; "+
			"aborting.", e.ID, e.Asked, e.Table)
}
