package forge

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/afero"
)

const (
	standardInputDescriptionConstant  = "-"
	fileDescriptionPrefixConstant     = "@"
	inlineDescriptionLabelConstant    = "inline"
	standardInputNotConfiguredMessage = "standard input not configured"
	fileSystemNotConfiguredMessage    = "filesystem not configured"
)

// DescriptionKind identifies where a description is read from.
type DescriptionKind string

// Description source kinds. The zero value means no description.
const (
	DescriptionNone          DescriptionKind = DescriptionKind("")
	DescriptionInline        DescriptionKind = DescriptionKind("inline")
	DescriptionStandardInput DescriptionKind = DescriptionKind("stdin")
	DescriptionFile          DescriptionKind = DescriptionKind("file")
)

// DescriptionSource locates the request body.
type DescriptionSource struct {
	Kind  DescriptionKind
	Value string
}

// ParseDescriptionSource interprets "-" as standard input, "@path" as a file, and anything else as inline text.
func ParseDescriptionSource(raw string) DescriptionSource {
	if raw == standardInputDescriptionConstant {
		return DescriptionSource{Kind: DescriptionStandardInput}
	}
	if path, isFile := strings.CutPrefix(raw, fileDescriptionPrefixConstant); isFile {
		return DescriptionSource{Kind: DescriptionFile, Value: path}
	}
	return DescriptionSource{Kind: DescriptionInline, Value: raw}
}

// IsPresent reports whether a description was supplied.
func (source DescriptionSource) IsPresent() bool {
	return source.Kind != DescriptionNone
}

// String renders the source without inline content.
func (source DescriptionSource) String() string {
	switch source.Kind {
	case DescriptionStandardInput:
		return standardInputDescriptionConstant
	case DescriptionFile:
		return fileDescriptionPrefixConstant + source.Value
	case DescriptionInline:
		return inlineDescriptionLabelConstant
	default:
		return ""
	}
}

// DescriptionReader reads description text from its source.
type DescriptionReader struct {
	fileSystem    afero.Fs
	standardInput io.Reader
}

// NewDescriptionReader constructs a reader over the filesystem and standard input.
func NewDescriptionReader(fileSystem afero.Fs, standardInput io.Reader) *DescriptionReader {
	return &DescriptionReader{fileSystem: fileSystem, standardInput: standardInput}
}

// Read returns the description text. An absent source yields an empty body.
func (reader *DescriptionReader) Read(source DescriptionSource) (string, error) {
	switch source.Kind {
	case DescriptionNone:
		return "", nil
	case DescriptionInline:
		return source.Value, nil
	case DescriptionStandardInput:
		if reader.standardInput == nil {
			return "", RequestError{Kind: ErrFailedDescription, Value: source.String(), Cause: errors.New(standardInputNotConfiguredMessage)}
		}
		content, readError := io.ReadAll(reader.standardInput)
		if readError != nil {
			return "", RequestError{Kind: ErrFailedDescription, Value: source.String(), Cause: readError}
		}
		return string(content), nil
	case DescriptionFile:
		if reader.fileSystem == nil {
			return "", RequestError{Kind: ErrFailedDescription, Value: source.String(), Cause: errors.New(fileSystemNotConfiguredMessage)}
		}
		content, readError := afero.ReadFile(reader.fileSystem, source.Value)
		if readError != nil {
			return "", RequestError{Kind: ErrFailedDescription, Value: source.String(), Cause: readError}
		}
		return string(content), nil
	default:
		return "", RequestError{Kind: ErrFailedDescription, Value: string(source.Kind)}
	}
}
