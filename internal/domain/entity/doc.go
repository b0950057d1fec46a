// Package entity holds the row metadata shared by evaluation entities and the
// explicit validation pass run before any persistence call.
package entity
