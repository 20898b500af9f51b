package changelog

import (
	"encoding/json"
	"fmt"

	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/go-playground/validator/v10"
)

// Validator guards that a payload extracted from a changelog entry carries
// the minimum required fields before it is applied. A failing payload aborts
// applying that single entry, never the whole batch.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// KnownEntityType reports whether entityType is one of the synced entity
// types. Lifecycle entries are not synced and fail the check.
func KnownEntityType(entityType EntityType) error {
	switch entityType {
	case EntityComic, EntityChapter, EntityReadProgress:
		return nil
	default:
		return fmt.Errorf("%w: %s", common.ErrUnknownEntityType, entityType)
	}
}

// Validate decodes data into the typed payload for entityType and runs the
// struct-tag field checks. Empty payloads, payloads without an id, payloads
// missing required fields and unknown entity types all fail with
// common.ErrInvalidPayload.
func (v *Validator) Validate(entityType EntityType, data json.RawMessage) error {
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("%w: empty %s payload", common.ErrInvalidPayload, entityType)
	}

	var payload any
	switch entityType {
	case EntityComic:
		payload = &Comic{}
	case EntityChapter:
		payload = &Chapter{}
	case EntityReadProgress:
		payload = &ReadProgress{}
	default:
		return fmt.Errorf("%w: cannot validate entity type %q", common.ErrInvalidPayload, entityType)
	}

	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("%w: malformed %s payload: %v", common.ErrInvalidPayload, entityType, err)
	}
	if err := v.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %s payload: %v", common.ErrInvalidPayload, entityType, err)
	}
	return nil
}

// DecodeComic validates and decodes a comic payload.
func (v *Validator) DecodeComic(data json.RawMessage) (*Comic, error) {
	if err := v.Validate(EntityComic, data); err != nil {
		return nil, err
	}
	var c Comic
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPayload, err)
	}
	return &c, nil
}

// DecodeChapter validates and decodes a chapter payload.
func (v *Validator) DecodeChapter(data json.RawMessage) (*Chapter, error) {
	if err := v.Validate(EntityChapter, data); err != nil {
		return nil, err
	}
	var c Chapter
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPayload, err)
	}
	return &c, nil
}

// DecodeReadProgress validates and decodes a readProgress payload.
func (v *Validator) DecodeReadProgress(data json.RawMessage) (*ReadProgress, error) {
	if err := v.Validate(EntityReadProgress, data); err != nil {
		return nil, err
	}
	var p ReadProgress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPayload, err)
	}
	return &p, nil
}
