// Package natsort implements natural string ordering, where embedded
// numbers compare by value rather than character by character.
package natsort
