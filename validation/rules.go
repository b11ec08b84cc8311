package validation

import (
	"slices"

	"github.com/go-playground/validator/v10"

	"tattoola/models"
)

func registerStructRules(v *validator.Validate) {
	v.RegisterStructValidation(mainStyleInFavorites, models.ArtistStep8{})
}

// mainStyleInFavorites - основной стиль должен быть выбран среди любимых
func mainStyleInFavorites(sl validator.StructLevel) {
	step := sl.Current().Interface().(models.ArtistStep8)
	if step.MainStyle == "" || len(step.FavoriteStyles) == 0 {
		return
	}
	if !slices.Contains(step.FavoriteStyles, step.MainStyle) {
		sl.ReportError(step.MainStyle, "main_style", "MainStyle", "memberof", "favorite_styles")
	}
}

// Step проверяет один шаг перед переходом к следующему экрану
func Step(step any) []FieldError {
	return Struct(step)
}
