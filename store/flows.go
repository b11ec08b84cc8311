package store

import (
	"context"

	"tattoola/kvstore"
	"tattoola/models"
	"tattoola/validation"
)

var (
	UserRegistrationFlow = FlowDefinition{
		Name:       "user-registration",
		StorageKey: "wizard.user-registration",
		FirstStep:  3,
		TotalSteps: 7,
	}
	ArtistRegistrationFlow = FlowDefinition{
		Name:       "artist-registration",
		StorageKey: "wizard.artist-registration",
		FirstStep:  3,
		TotalSteps: 12,
	}
	StudioSetupFlow = FlowDefinition{
		Name:       "studio-setup",
		StorageKey: "wizard.studio-setup",
		FirstStep:  1,
		TotalSteps: 7,
	}
)

func validateSteps[S any](steps S) []validation.FieldError {
	return validation.Struct(steps)
}

type UserRegistration struct {
	*Wizard[models.UserRegistrationSteps]
}

func NewUserRegistration(kv kvstore.Store) *UserRegistration {
	return &UserRegistration{NewWizard(UserRegistrationFlow, kv, validateSteps[models.UserRegistrationSteps])}
}

func (w *UserRegistration) UpdateStep3(ctx context.Context, patch models.UserStep3Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.UserRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step3, patch)
	})
}

func (w *UserRegistration) UpdateStep4(ctx context.Context, patch models.UserStep4Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.UserRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step4, patch)
	})
}

func (w *UserRegistration) UpdateStep5(ctx context.Context, patch models.UserStep5Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.UserRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step5, patch)
	})
}

func (w *UserRegistration) UpdateStep6(ctx context.Context, patch models.UserStep6Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.UserRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step6, patch)
	})
}

func (w *UserRegistration) UpdateStep7(ctx context.Context, patch models.UserStep7Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.UserRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step7, patch)
	})
}

type ArtistRegistration struct {
	*Wizard[models.ArtistRegistrationSteps]
}

func NewArtistRegistration(kv kvstore.Store) *ArtistRegistration {
	return &ArtistRegistration{NewWizard(ArtistRegistrationFlow, kv, validateSteps[models.ArtistRegistrationSteps])}
}

func (w *ArtistRegistration) UpdateStep3(ctx context.Context, patch models.ArtistStep3Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step3, patch)
	})
}

func (w *ArtistRegistration) UpdateStep4(ctx context.Context, patch models.ArtistStep4Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step4, patch)
	})
}

func (w *ArtistRegistration) UpdateStep5(ctx context.Context, patch models.ArtistStep5Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step5, patch)
	})
}

func (w *ArtistRegistration) UpdateStep6(ctx context.Context, patch models.ArtistStep6Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step6, patch)
	})
}

func (w *ArtistRegistration) UpdateStep7(ctx context.Context, patch models.ArtistStep7Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step7, patch)
	})
}

func (w *ArtistRegistration) UpdateStep8(ctx context.Context, patch models.ArtistStep8Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step8, patch)
	})
}

func (w *ArtistRegistration) UpdateStep9(ctx context.Context, patch models.ArtistStep9Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step9, patch)
	})
}

func (w *ArtistRegistration) UpdateStep10(ctx context.Context, patch models.ArtistStep10Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step10, patch)
	})
}

func (w *ArtistRegistration) UpdateStep11(ctx context.Context, patch models.ArtistStep11Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step11, patch)
	})
}

func (w *ArtistRegistration) UpdateStep12(ctx context.Context, patch models.ArtistStep12Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.ArtistRegistrationSteps]) error {
		return mergeStep(&st.Steps.Step12, patch)
	})
}

type StudioSetup struct {
	*Wizard[models.StudioSetupSteps]
}

func NewStudioSetup(kv kvstore.Store) *StudioSetup {
	return &StudioSetup{NewWizard(StudioSetupFlow, kv, validateSteps[models.StudioSetupSteps])}
}

func (w *StudioSetup) UpdateStep1(ctx context.Context, patch models.StudioStep1Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.StudioSetupSteps]) error {
		return mergeStep(&st.Steps.Step1, patch)
	})
}

func (w *StudioSetup) UpdateStep2(ctx context.Context, patch models.StudioStep2Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.StudioSetupSteps]) error {
		return mergeStep(&st.Steps.Step2, patch)
	})
}

func (w *StudioSetup) UpdateStep3(ctx context.Context, patch models.StudioStep3Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.StudioSetupSteps]) error {
		return mergeStep(&st.Steps.Step3, patch)
	})
}

func (w *StudioSetup) UpdateStep4(ctx context.Context, patch models.StudioStep4Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.StudioSetupSteps]) error {
		return mergeStep(&st.Steps.Step4, patch)
	})
}

func (w *StudioSetup) UpdateStep5(ctx context.Context, patch models.StudioStep5Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.StudioSetupSteps]) error {
		return mergeStep(&st.Steps.Step5, patch)
	})
}

func (w *StudioSetup) UpdateStep6(ctx context.Context, patch models.StudioStep6Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.StudioSetupSteps]) error {
		return mergeStep(&st.Steps.Step6, patch)
	})
}

func (w *StudioSetup) UpdateStep7(ctx context.Context, patch models.StudioStep7Patch) error {
	return w.mutate(ctx, func(st *WizardState[models.StudioSetupSteps]) error {
		return mergeStep(&st.Steps.Step7, patch)
	})
}
