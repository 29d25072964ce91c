package ast

import "github.com/goliatone/go-asciidoc/pkg/interfaces"

// Walk visits node and its descendants depth first in document order. When
// fn returns false the children of that node are skipped. Asciidoc table
// cells are descended into.
func Walk(node interfaces.Node, fn func(interfaces.Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	if cell, ok := node.(*Cell); ok {
		if inner := cell.Inner(); inner != nil {
			Walk(inner, fn)
		}
		return
	}
	for _, child := range node.Children() {
		Walk(child, fn)
	}
}

// FindSection returns the closest enclosing section of node.
func FindSection(node interfaces.Node) *Section {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if s, ok := p.(*Section); ok {
			return s
		}
	}
	return nil
}

// DocumentOf returns the document owning node.
func DocumentOf(node interfaces.Node) *Document {
	for n := node; n != nil; n = n.Parent() {
		if d, ok := n.(*Document); ok {
			return d
		}
	}
	return nil
}
