package vdom

import (
	"fmt"
	"strings"
)

// Class is one conditional entry for Classes
type Class struct {
	Name string
	On   bool
}

// When pairs a class name with the condition that enables it
func When(on bool, name string) Class {
	return Class{Name: name, On: on}
}

// Classes joins base with every enabled conditional class.
//
//	vdom.Classes("dot", vdom.When(i == active, "dot-active"))
func Classes(base string, conditional ...Class) string {
	parts := make([]string, 0, len(conditional)+1)
	if base = strings.TrimSpace(base); base != "" {
		parts = append(parts, base)
	}
	for _, c := range conditional {
		if c.On && c.Name != "" {
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, " ")
}

func toString(v any) string {
	return fmt.Sprint(v)
}
