package amenity

import (
	"errors"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/domainerr"
)

// Amenity ドメインのエラー定義
var (
	ErrAmenityNotFound    = errors.New("Amenity not found!")
	ErrAmenityNameExists  = errors.New("Amenity with this name already exists.")
	ErrNameRequired       = errors.New("Amenity name cannot be blank")
	ErrNameTooLong        = errors.New("Amenity name cannot exceed 50 characters")
	ErrDescriptionTooLong = errors.New("Description cannot exceed 200 characters")
	ErrNegativeSurcharge  = errors.New("Additional cost must be positive or zero")
)

// NameExists は重複した名前を含む ErrAmenityNameExists を返す
func NameExists(name string) error {
	return domainerr.New(ErrAmenityNameExists, "Amenity with name '%s' already exists.", name)
}
