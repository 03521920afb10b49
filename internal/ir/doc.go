// Package ir defines the records the ordering-constraint graph operates on.
//
// An Action is an immutable recorded memory operation. Once an Action has
// been referenced by the graph it must never change: the graph keys its
// node table by Action identity and reads the thread ID during
// elimination queries.
//
// A Promise is a deferred value commitment owned by the surrounding
// checker. The graph only ever asks it one question: whether a given
// thread is excluded from satisfying it.
package ir
