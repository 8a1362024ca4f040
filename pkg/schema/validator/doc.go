// Package validator checks the structural shape of a form schema.
//
// The check is a presence and shape walk over the raw decoded document:
// the form must have at least one page, pages and sections need a key,
// sections and fields must be lists, fields need a key and a known type,
// and options fields must declare option data. Errors are keyed by the
// indexed path of the offending node:
//
//	form.pages[0].sections[1].fields[2].type: Field type is invalid or missing.
//
// A section whose fields are not a list, or a page whose sections are not a
// list, produces a single error for that node and is not descended into.
package validator
