package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidInput = errors.New("invalid input")

type BeanInput struct {
	Roaster      string  `json:"roaster"      validate:"required"`
	Name         string  `json:"name"         validate:"required"`
	OriginType   string  `json:"originType"   validate:"required,origin_type"`
	RoastType    string  `json:"roastType"    validate:"required,roast_type"`
	TastingNotes string  `json:"tastingNotes"`
	Image        *string `json:"image,omitempty"`
}

type ShotInput struct {
	BeanID       string  `json:"beanId"       validate:"required"`
	Dose         float64 `json:"dose"         validate:"gt=0"`
	Yield        float64 `json:"yield"        validate:"gt=0"`
	Time         float64 `json:"time"         validate:"gt=0"`
	GrindSetting string  `json:"grindSetting" validate:"max=32"`
	Rating       float64 `json:"rating"       validate:"gte=1,lte=10"`
	Notes        string  `json:"notes"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("origin_type", func(field validator.FieldLevel) bool {
		return OriginType(field.Field().String()).Valid()
	})
	_ = v.RegisterValidation("roast_type", func(field validator.FieldLevel) bool {
		return RoastType(field.Field().String()).Valid()
	})

	return v
}

func (b *BeanInput) Validate() error {
	b.Roaster = strings.TrimSpace(b.Roaster)
	b.Name = strings.TrimSpace(b.Name)

	return validationError(validate.Struct(b))
}

func (s *ShotInput) Validate() error {
	s.GrindSetting = strings.TrimSpace(s.GrindSetting)

	return validationError(validate.Struct(s))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, fmt.Sprintf("%s: %s validation failed", fieldError.Field(), fieldError.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(messages, ", "))
}

// BeanInputFrom is the edit form of bean. The image is copied so decoding over
// the input never writes into the stored bean.
func BeanInputFrom(bean Bean) BeanInput {
	input := BeanInput{
		Roaster:      bean.Roaster,
		Name:         bean.Name,
		OriginType:   string(bean.OriginType),
		RoastType:    string(bean.RoastType),
		TastingNotes: bean.TastingNotes,
	}

	if bean.Image != nil {
		image := *bean.Image
		input.Image = &image
	}

	return input
}
