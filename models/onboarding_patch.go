package models

type UserStep3Patch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type UserStep4Patch struct {
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type UserStep5Patch struct {
	Province     *string `json:"province,omitempty"`
	Municipality *string `json:"municipality,omitempty"`
}

type UserStep6Patch struct {
	FavoriteStyles *[]string `json:"favorite_styles,omitempty"`
}

type UserStep7Patch struct {
	IsPublic *bool `json:"is_public,omitempty"`
}

type ArtistStep3Patch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type ArtistStep4Patch struct {
	WorkArrangement *WorkArrangement `json:"work_arrangement,omitempty"`
}

type ArtistStep5Patch struct {
	StudioName    *string `json:"studio_name,omitempty"`
	Province      *string `json:"province,omitempty"`
	Municipality  *string `json:"municipality,omitempty"`
	StudioAddress *string `json:"studio_address,omitempty"`
}

type ArtistStep6Patch struct {
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type ArtistStep7Patch struct {
	Bio *string `json:"bio,omitempty"`
}

type ArtistStep8Patch struct {
	FavoriteStyles *[]string `json:"favorite_styles,omitempty"`
	MainStyle      *string   `json:"main_style,omitempty"`
}

type ArtistStep9Patch struct {
	Services *[]string `json:"services,omitempty"`
}

type ArtistStep10Patch struct {
	BodyParts *[]string `json:"body_parts,omitempty"`
}

type ArtistStep11Patch struct {
	MinimumPrice *float64 `json:"minimum_price,omitempty"`
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
}

type ArtistStep12Patch struct {
	Projects *[]ProjectDraft `json:"projects,omitempty"`
}

type StudioStep1Patch struct {
	BannerURL *string `json:"banner_url,omitempty"`
	LogoURL   *string `json:"logo_url,omitempty"`
}

type StudioStep2Patch struct {
	Name         *string `json:"name,omitempty"`
	Province     *string `json:"province,omitempty"`
	Municipality *string `json:"municipality,omitempty"`
}

type StudioStep3Patch struct {
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}

type StudioStep4Patch struct {
	Styles *[]string `json:"styles,omitempty"`
}

type StudioStep5Patch struct {
	Services *[]string `json:"services,omitempty"`
}

type StudioStep6Patch struct {
	MemberIDs *[]string `json:"member_ids,omitempty"`
}

type StudioStep7Patch struct {
	FAQs *[]FAQDraft `json:"faqs,omitempty"`
}
