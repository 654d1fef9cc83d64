package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/academiplan/backend/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

// RegisterValidators hooks the user package's struct validations and
// translations into the application validator.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newUserStructValidation, NewUser{})

	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

func newUserStructValidation(sl validator.StructLevel) {
	nu := sl.Current().Interface().(NewUser)
	validatePassword(sl, nu.Password, nu.Username, nu.Email, nu.Name)
}

// validatePassword enforces the password policy against the given user attributes.
func validatePassword(sl validator.StructLevel, pass string, usrAttrs ...string) {
	if pass == "" {
		return // `required` covers this
	}

	if len(pass) < pwdMinLen {
		sl.ReportError(pass, "password", "Password", pwdMinLenTag, "")
	}

	var allNum = true
	for _, r := range pass {
		if unicode.IsSpace(r) {
			sl.ReportError(pass, "password", "Password", pwdNoSpaceTag, "")
			break
		}
	}
	for _, r := range pass {
		if !unicode.IsDigit(r) {
			allNum = false
			break
		}
	}
	if allNum {
		sl.ReportError(pass, "password", "Password", pwdNotAllNumTag, "")
	}

	lowerPass := strings.ToLower(pass)
	for _, attr := range usrAttrs {
		if attr == "" {
			continue
		}
		if similarity(lowerPass, strings.ToLower(attr)) >= pwdMaxSim {
			sl.ReportError(pass, "password", "Password", pwdAttrSimTag, "")
			break
		}
	}
}

func similarity(pass, usrAttr string) float64 {
	return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
}
