// Package common provides helpers shared by the tool handler packages:
// argument extraction, result rendering and the instrumentation wrapper.
package common
