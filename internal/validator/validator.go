package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidStars    = errors.New("stars must be between 1 and 5")
	ErrCommentTooLong  = errors.New("comment exceeds 280 characters")
	ErrInvalidTitle    = errors.New("invalid title")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateStars(stars int) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidStars
	}
	return nil
}

func ValidateComment(comment string) error {
	if len([]rune(comment)) > 280 {
		return ErrCommentTooLong
	}
	return nil
}

func ValidateTitle(title string) error {
	if title == "" || len(title) > 120 {
		return ErrInvalidTitle
	}
	return nil
}
