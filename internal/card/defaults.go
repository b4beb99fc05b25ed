package card

const DefaultFont = "Inter"

// AvailableFonts lists the families offered by the editor.
var AvailableFonts = []string{
	"Arial",
	"Helvetica",
	"Roboto",
	"Open Sans",
	"Montserrat",
	"Playfair Display",
	"Lato",
	"Poppins",
	"Georgia",
	"Times New Roman",
}

// Default returns the document a new editor session starts with.
func Default() Document {
	return Document{
		Name:     TextField{X: 20, Y: 50, Size: 24, Font: DefaultFont},
		Title:    TextField{X: 20, Y: 80, Size: 16, Font: DefaultFont},
		Company:  TextField{X: 20, Y: 110, Size: 18, Font: DefaultFont},
		Email:    TextField{X: 20, Y: 140, Size: 14, Font: DefaultFont},
		Phone:    TextField{X: 20, Y: 170, Size: 14, Font: DefaultFont},
		Website:  TextField{X: 20, Y: 200, Size: 14, Font: DefaultFont},
		Services: []Service{},

		BackgroundColor: "#ffffff",
		TextColor:       "#000000",

		ProfileImage: ImageElement{
			X: 20, Y: 20, Size: 100,
			Style: ImageStyle{Shape: ShapeCircle, Shadow: true, ShadowBlur: 10},
		},
		LogoImage: ImageElement{
			X: 280, Y: 20, Size: 100,
			Style: ImageStyle{Shape: ShapeSquare, Shadow: true, ShadowBlur: 5},
		},

		DesignStyle: DefaultDesignStyle(),
	}
}

// DefaultDesignStyle is the flat white look restored by a design reset.
func DefaultDesignStyle() DesignStyle {
	return DesignStyle{
		Pattern:                 PatternNone,
		Overlay:                 OverlayNone,
		BorderStyle:             BorderNone,
		BackgroundGradient:      false,
		GradientColors:          []string{"#ffffff", "#f0f0f0"},
		BackgroundGradientType:  GradientLinear,
		BackgroundGradientAngle: 45,
	}
}

// NewService returns a service entry placed below the fixed fields.
func NewService(text string, index int) Service {
	return Service{
		TextField: TextField{Text: text, X: 20, Y: 230 + float64(index)*20, Size: 14, Font: DefaultFont},
		TextStyle: TextNormal,
	}
}
