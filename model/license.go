package model

// LicenseTierTerms describes what one license tier allows. All limit fields
// are free-text display strings, not parsed numbers.
type LicenseTierTerms struct {
	Name         string   `json:"name"`
	Streams      string   `json:"streams"`
	Sales        string   `json:"sales"`
	Videos       string   `json:"videos"`
	Performances string   `json:"performances"`
	Publishing   string   `json:"publishing"`
	Description  string   `json:"description"`
	CanDo        []string `json:"canDo"`
	CannotDo     []string `json:"cannotDo"`
}

// LicenseTerms is the singleton license configuration: exactly one set of
// terms per tier, fully overwritten on every save.
type LicenseTerms = TierSet[LicenseTierTerms]

// DefaultLicenseTerms returns the built-in terms used until an operator
// saves their own. It keeps the contract generator working with zero
// configuration.
func DefaultLicenseTerms() LicenseTerms {
	return LicenseTerms{
		Basic: LicenseTierTerms{
			Name:         "Basic Lease License",
			Streams:      "250,000",
			Sales:        "5,000",
			Videos:       "2 music videos",
			Performances: "Non-profit performances only",
			Publishing:   "50%",
			Description:  "Perfect for artists starting out or working on smaller projects.",
			CanDo: []string{
				"Use the beat for your recording, mix, and master",
				"Distribute your song on Spotify, Apple Music, etc.",
				"Use for 2 music videos",
				"Perform live at non-profit events",
				"Keep 100% of master recording royalties",
			},
			CannotDo: []string{
				"Transfer or resell this license to another artist",
				"Register the beat with Content ID as your own",
				"Claim copyright ownership of the underlying beat",
				"Use for commercial performances",
				"Create derivative beats from this instrumental",
			},
		},
		Premium: LicenseTierTerms{
			Name:         "Premium Lease License",
			Streams:      "1,000,000",
			Sales:        "10,000",
			Videos:       "5 music videos",
			Performances: "All performances (commercial allowed)",
			Publishing:   "75%",
			Description:  "Great for established artists and commercial projects.",
			CanDo: []string{
				"Use the beat for your recording, mix, and master",
				"Distribute your song on Spotify, Apple Music, etc.",
				"Use for 5 music videos",
				"Perform live commercially",
				"Keep 100% of master recording royalties",
			},
			CannotDo: []string{
				"Transfer or resell this license to another artist",
				"Register the beat with Content ID as your own",
				"Claim copyright ownership of the underlying beat",
				"Use in film/TV without additional license",
				"Create derivative beats from this instrumental",
			},
		},
		Unlimited: LicenseTierTerms{
			Name:         "Unlimited Lease License",
			Streams:      "Unlimited",
			Sales:        "Unlimited",
			Videos:       "Unlimited music videos",
			Performances: "All performances",
			Publishing:   "100%",
			Description:  "Maximum rights for serious artists and major projects.",
			CanDo: []string{
				"Use the beat for your recording, mix, and master",
				"Distribute your song with unlimited streams",
				"Unlimited music videos",
				"All live performances",
				"Keep 100% of master recording royalties",
				"Use in commercial projects",
			},
			CannotDo: []string{
				"Transfer or resell this license to another artist",
				"Register the beat with Content ID as your own",
				"Claim copyright ownership of the underlying beat",
				"Create derivative beats from this instrumental",
			},
		},
	}
}
