package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Annotation shape violations
	AnnoInfo                 Code = 1000
	AnnoUnknownDirective     Code = 1001
	AnnoMissingName          Code = 1002
	AnnoDuplicateName        Code = 1003
	AnnoMissingDescription   Code = 1004
	AnnoDuplicateDescription Code = 1005
	AnnoConflictingKind      Code = 1006
	AnnoMisplacedDirective   Code = 1007
	AnnoMalformedName        Code = 1008
	AnnoMalformedParam       Code = 1009
	AnnoMalformedReturn      Code = 1010
	AnnoDuplicateMember      Code = 1011
	AnnoSelfPosition         Code = 1012
	AnnoSelfType             Code = 1013
	AnnoMissingReturn        Code = 1014
	AnnoOptionalOrder        Code = 1015
	AnnoDuplicateParamName   Code = 1016
	AnnoUnknownExtension     Code = 1017
	AnnoDuplicateClass       Code = 1018
	AnnoMixedReturn          Code = 1019
	AnnoUnterminatedComment  Code = 1020

	// Type graph resolution
	TypeInfo             Code = 2000
	TypeUnresolved       Code = 2001
	TypeSynonym          Code = 2002
	TypeInheritanceCycle Code = 2003
	TypeNotRegistered    Code = 2004
	TypeNotDocumented    Code = 2005

	// Signature compaction and consistency checks
	SigInfo           Code = 3000
	SigToolLimitation Code = 3001
	SigBodyMismatch   Code = 3002

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Project layout
	ProjInfo      Code = 5000
	ProjNoSources Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	AnnoInfo:                 "Annotation information",
	AnnoUnknownDirective:     "Unknown directive",
	AnnoMissingName:          "Missing name directive",
	AnnoDuplicateName:        "Duplicate name directive",
	AnnoMissingDescription:   "Missing description directive",
	AnnoDuplicateDescription: "Duplicate description directive",
	AnnoConflictingKind:      "Block mixes declaration kinds",
	AnnoMisplacedDirective:   "Directive not allowed in this block",
	AnnoMalformedName:        "Malformed member name",
	AnnoMalformedParam:       "Malformed parameter declaration",
	AnnoMalformedReturn:      "Malformed return declaration",
	AnnoDuplicateMember:      "Duplicate member",
	AnnoSelfPosition:         "'self' is not the first parameter",
	AnnoSelfType:             "'self' type differs from owning type",
	AnnoMissingReturn:        "Overload declares no return value",
	AnnoOptionalOrder:        "Optional parameter precedes required parameter",
	AnnoDuplicateParamName:   "Duplicate parameter name",
	AnnoUnknownExtension:     "Overload extends unknown method",
	AnnoDuplicateClass:       "Class documented more than once",
	AnnoMixedReturn:          "'none' combined with other return values",
	AnnoUnterminatedComment:  "Unterminated documentation comment",
	TypeInfo:                 "Type information",
	TypeUnresolved:           "Missing or undocumented type",
	TypeSynonym:              "Type name is an alias",
	TypeInheritanceCycle:     "Inheritance cycle",
	TypeNotRegistered:        "Documented class is not registered",
	TypeNotDocumented:        "Registered class is not documented",
	SigInfo:                  "Signature information",
	SigToolLimitation:        "Tool limitation",
	SigBodyMismatch:          "Method body disagrees with documented returns",
	IOLoadFileError:          "I/O load file error",
	ProjInfo:                 "Project information",
	ProjNoSources:            "No source files found",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("ANN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SIG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
