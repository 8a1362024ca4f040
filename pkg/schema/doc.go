// Package schema defines the form schema data model and its decoders.
//
// A schema is a tree of pages, sections and fields:
//
//	form:
//	  pages:
//	    - key: page_1
//	      sections:
//	        - key: section_1
//	          fields:
//	            - key: email
//	              type: email
//	              required: true
//	              constraints:
//	                allowed_domains: [example.com]
//	              validations:
//	                - rule: ends_with
//	                  params: [".com"]
//	                  message: "Use a .com address."
//
// Documents are decoded from JSON (sonic, numbers kept as json.Number) or
// YAML (yaml.v3) into plain maps, then normalised so integers are int64 and
// floats are float64. FromMap converts a normalised document into the typed
// Schema without failing; structural checks live in the validator subpackage.
package schema
