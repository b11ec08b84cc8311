package models

// Шаги мастеров регистрации. StepN - сохраненные данные шага, StepNPatch -
// частичное изменение: nil-поле не передано, указатель на пустое значение
// очищает поле.

// Ptr - указатель на значение для полей патча
func Ptr[T any](v T) *T {
	return &v
}

// User registration, шаги 3..7 (1-2 - email и пароль, их делает auth)

type UserStep3 struct {
	FirstName string `json:"first_name" validate:"notblank"`
	LastName  string `json:"last_name" validate:"notblank"`
}

type UserStep4 struct {
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type UserStep5 struct {
	Province     string `json:"province" validate:"notblank"`
	Municipality string `json:"municipality" validate:"notblank"`
}

type UserStep6 struct {
	FavoriteStyles []string `json:"favorite_styles" validate:"min=1,max=4,dive,notblank"`
}

type UserStep7 struct {
	IsPublic *bool `json:"is_public,omitempty" validate:"required"`
}

type UserRegistrationSteps struct {
	Step3 UserStep3 `json:"step3"`
	Step4 UserStep4 `json:"step4"`
	Step5 UserStep5 `json:"step5"`
	Step6 UserStep6 `json:"step6"`
	Step7 UserStep7 `json:"step7"`
}

// Artist registration, шаги 3..12

type ArtistStep3 struct {
	FirstName string `json:"first_name" validate:"notblank"`
	LastName  string `json:"last_name" validate:"notblank"`
}

type ArtistStep4 struct {
	WorkArrangement WorkArrangement `json:"work_arrangement" validate:"required,oneof=freelance studio_owner studio_employee"`
}

type ArtistStep5 struct {
	StudioName    string `json:"studio_name"`
	Province      string `json:"province" validate:"notblank"`
	Municipality  string `json:"municipality" validate:"notblank"`
	StudioAddress string `json:"studio_address"`
}

type ArtistStep6 struct {
	AvatarURL string `json:"avatar_url" validate:"required,url"`
}

type ArtistStep7 struct {
	Bio string `json:"bio" validate:"notblank,max=1000"`
}

// ArtistStep8 - MainStyle обязан входить в FavoriteStyles
type ArtistStep8 struct {
	FavoriteStyles []string `json:"favorite_styles" validate:"min=1,max=4,dive,notblank"`
	MainStyle      string   `json:"main_style" validate:"notblank"`
}

type ArtistStep9 struct {
	Services []string `json:"services" validate:"min=1,dive,notblank"`
}

type ArtistStep10 struct {
	BodyParts []string `json:"body_parts" validate:"min=1,dive,notblank"`
}

type ArtistStep11 struct {
	MinimumPrice float64 `json:"minimum_price" validate:"gt=0"`
	HourlyRate   float64 `json:"hourly_rate" validate:"gt=0"`
}

type ProjectDraft struct {
	Title       string   `json:"title" validate:"notblank"`
	Description string   `json:"description"`
	MediaURLs   []string `json:"media_urls" validate:"min=1,dive,url"`
}

type ArtistStep12 struct {
	Projects []ProjectDraft `json:"projects" validate:"min=1,max=4,dive"`
}

type ArtistRegistrationSteps struct {
	Step3  ArtistStep3  `json:"step3"`
	Step4  ArtistStep4  `json:"step4"`
	Step5  ArtistStep5  `json:"step5"`
	Step6  ArtistStep6  `json:"step6"`
	Step7  ArtistStep7  `json:"step7"`
	Step8  ArtistStep8  `json:"step8"`
	Step9  ArtistStep9  `json:"step9"`
	Step10 ArtistStep10 `json:"step10"`
	Step11 ArtistStep11 `json:"step11"`
	Step12 ArtistStep12 `json:"step12"`
}

// Studio setup, шаги 1..7

type StudioStep1 struct {
	BannerURL string `json:"banner_url" validate:"omitempty,url"`
	LogoURL   string `json:"logo_url" validate:"required,url"`
}

type StudioStep2 struct {
	Name         string `json:"name" validate:"notblank"`
	Province     string `json:"province" validate:"notblank"`
	Municipality string `json:"municipality" validate:"notblank"`
}

type StudioStep3 struct {
	Address     string `json:"address" validate:"notblank"`
	Description string `json:"description" validate:"max=2000"`
}

type StudioStep4 struct {
	Styles []string `json:"styles" validate:"min=1,dive,notblank"`
}

type StudioStep5 struct {
	Services []string `json:"services" validate:"min=1,dive,notblank"`
}

type StudioStep6 struct {
	MemberIDs []string `json:"member_ids" validate:"dive,uuid"`
}

type FAQDraft struct {
	Question string `json:"question" validate:"notblank"`
	Answer   string `json:"answer" validate:"notblank"`
}

type StudioStep7 struct {
	FAQs []FAQDraft `json:"faqs" validate:"dive"`
}

type StudioSetupSteps struct {
	Step1 StudioStep1 `json:"step1"`
	Step2 StudioStep2 `json:"step2"`
	Step3 StudioStep3 `json:"step3"`
	Step4 StudioStep4 `json:"step4"`
	Step5 StudioStep5 `json:"step5"`
	Step6 StudioStep6 `json:"step6"`
	Step7 StudioStep7 `json:"step7"`
}

// PrivateRequestAnswers - ответы мастера приватного запроса (не сохраняются на диск)
type PrivateRequestAnswers struct {
	ArtistID      string          `json:"artist_id" validate:"required,uuid"`
	Size          TattooSize      `json:"size" validate:"required,oneof=small medium large xl"`
	ReferenceURLs []string        `json:"reference_urls" validate:"max=5,dive,url"`
	Color         ColorPreference `json:"color" validate:"required,oneof=black_grey color unsure"`
	Description   string          `json:"description" validate:"notblank,max=1000"`
	IsAdult       bool            `json:"is_adult" validate:"eq=true"`
}
