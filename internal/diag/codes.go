package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Parse errors: lexing and syntax of taxonomy sources.
	ParseInfo                     Code = 1000
	ParseUnknownChar              Code = 1001
	ParseUnterminatedString       Code = 1002
	ParseUnterminatedBlockComment Code = 1003
	ParseNewlineInString          Code = 1004
	ParseUnexpectedToken          Code = 1010
	ParseExpectIdent              Code = 1011
	ParseExpectAttrKey            Code = 1012
	ParseExpectAttrValue          Code = 1013
	ParseUnclosedAttr             Code = 1014
	ParseUnclosedBody             Code = 1015
	ParseUnclosedFields           Code = 1016
	ParseExpectComma              Code = 1017
	ParseBadFieldAttr             Code = 1018
	ParseDuplicateSpanField       Code = 1019
	ParseUnclosedGenerics         Code = 1020
	ParseExpectFieldType          Code = 1021
	ParseExpectTaxonomyName       Code = 1022
	ParseEmptyGroup               Code = 1023

	// Attribute errors: merge-time validation of resolved configs.
	AttrInfo             Code = 2000
	AttrUnknownKey       Code = 2001
	AttrBadKind          Code = 2002
	AttrBadNumber        Code = 2003
	AttrMissingValue     Code = 2004
	AttrUnexpectedValue  Code = 2005
	AttrNestedOnGroup    Code = 2006
	AttrNestedFieldCount Code = 2007

	// Template errors: placeholder validation against field shapes.
	TemplateInfo            Code = 3000
	TemplateUnterminated    Code = 3001
	TemplateStrayClose      Code = 3002
	TemplateMissingFieldRef Code = 3003
	TemplateBadIndex        Code = 3004
	TemplateUnknownField    Code = 3005
	TemplateIndexOutOfRange Code = 3006
	TemplateShapeMismatch   Code = 3007
	TemplateOnUnitShape     Code = 3008

	// Emission errors: descriptor construction.
	EmitInfo          Code = 4000
	EmitMissingMsg    Code = 4001
	EmitDuplicateCode Code = 4002

	// Ошибки I/O
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002
	IOManifestError  Code = 5003
	IOCacheError     Code = 5004
)

var ( // todo расширить описания и использовать как notes
	codeDescription = map[Code]string{
		UnknownCode:                   "Unknown error",
		ParseInfo:                     "Parse information",
		ParseUnknownChar:              "Unknown character",
		ParseUnterminatedString:       "Unterminated string",
		ParseUnterminatedBlockComment: "Unterminated block comment",
		ParseNewlineInString:          "Newline in string literal",
		ParseUnexpectedToken:          "Unexpected token",
		ParseExpectIdent:              "Expect identifier",
		ParseExpectAttrKey:            "Expect attribute key",
		ParseExpectAttrValue:          "Expect attribute value",
		ParseUnclosedAttr:             "Unclosed attribute",
		ParseUnclosedBody:             "Unclosed node body",
		ParseUnclosedFields:           "Unclosed field list",
		ParseExpectComma:              "Expect comma after node",
		ParseBadFieldAttr:             "Unsupported field attribute",
		ParseDuplicateSpanField:       "Duplicate span field marker",
		ParseUnclosedGenerics:         "Unclosed generic parameter list",
		ParseExpectFieldType:          "Expect field type",
		ParseExpectTaxonomyName:       "Expect taxonomy name",
		ParseEmptyGroup:               "Empty group",
		AttrInfo:                      "Attribute information",
		AttrUnknownKey:                "Unknown attribute key",
		AttrBadKind:                   "Invalid kind value",
		AttrBadNumber:                 "Malformed numeric fragment",
		AttrMissingValue:              "Attribute requires a value",
		AttrUnexpectedValue:           "Attribute does not take a value",
		AttrNestedOnGroup:             "'nested' is only valid on variants",
		AttrNestedFieldCount:          "Nested variant must have exactly one field",
		TemplateInfo:                  "Template information",
		TemplateUnterminated:          "Unterminated placeholder",
		TemplateStrayClose:            "Stray closing brace",
		TemplateMissingFieldRef:       "Placeholder missing field reference",
		TemplateBadIndex:              "Malformed positional index",
		TemplateUnknownField:          "Placeholder references unknown field",
		TemplateIndexOutOfRange:       "Positional index out of range",
		TemplateShapeMismatch:         "Placeholder kind does not match field shape",
		TemplateOnUnitShape:           "Unit variant template cannot reference fields",
		EmitInfo:                      "Emission information",
		EmitMissingMsg:                "Missing message",
		EmitDuplicateCode:             "Duplicate variant code",
		IOLoadFileError:               "I/O load file error",
		IOWriteFileError:              "I/O write file error",
		IOManifestError:               "Malformed manifest",
		IOCacheError:                  "Artifact cache error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("ATT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TPL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
