package account

import "github.com/clinicdesk/clinicdesk/internal/platform/identity"

// Fixed, finite tables mapping provider error codes to the messages the
// client shows. Unlisted codes fall back to the generic message.

var signInMessages = map[string]string{
	identity.CodeInvalidEmail:      "Please enter a valid email address",
	identity.CodeUserNotFound:      "No account found with this email",
	identity.CodeWrongPassword:     "Incorrect password",
	identity.CodeInvalidCredential: "Invalid login credentials",
	identity.CodeUserDisabled:      "This account has been disabled",
	identity.CodeTooManyRequests:   "Too many attempts. Try again later",
	identity.CodeNetworkFailure:    "Network error. Check your connection",
	identity.CodeInternalError:     "Server error. Please try again",
	"auth/popup-closed-by-user":    "Login window was closed",
	"auth/cancelled-popup-request": "Login cancelled",
}

const signInFallback = "Login failed. Please try again"

var signUpMessages = map[string]string{
	identity.CodeEmailAlreadyInUse: "Email already exists",
	identity.CodeWeakPassword:      "Password should be at least 6 characters",
	identity.CodeInvalidEmail:      "Invalid email address",
}

const signUpFallback = "Signup failed. Please try again"

func FriendlySignInMessage(err error) string {
	if msg, ok := signInMessages[identity.CodeOf(err)]; ok {
		return msg
	}
	return signInFallback
}

func FriendlySignUpMessage(err error) string {
	if msg, ok := signUpMessages[identity.CodeOf(err)]; ok {
		return msg
	}
	return signUpFallback
}
