package blog

import "testing"

func TestCommentFormValidateCleanSubmission(t *testing.T) {
	t.Parallel()

	form := CommentForm{Name: "Ada", Email: "ada@example.com", Body: "Great post."}

	if errs := form.Validate(); !errs.Valid() {
		t.Fatalf("expected valid form, got errors: %v", errs)
	}
}

func TestCommentFormValidateRequiredFields(t *testing.T) {
	t.Parallel()

	errs := CommentForm{}.Validate()

	for _, field := range []string{"name", "email", "body"} {
		if errs[field] == "" {
			t.Fatalf("expected error for field %q, got %v", field, errs)
		}
	}
}

func TestCommentFormValidateRejectsMalformedEmail(t *testing.T) {
	t.Parallel()

	for _, email := range []string{"not-an-email", "a@", "@b", "Ada <ada@example.com>", "a b@example.com"} {
		form := CommentForm{Name: "Ada", Email: email, Body: "Hi"}
		errs := form.Validate()

		if errs["email"] == "" {
			t.Fatalf("expected email error for %q, got %v", email, errs)
		}
	}
}

func TestCommentFormValidateWhitespaceOnlyBody(t *testing.T) {
	t.Parallel()

	form := CommentForm{Name: "Ada", Email: "ada@example.com", Body: "   "}

	if errs := form.Validate(); errs["body"] == "" {
		t.Fatalf("expected body error for whitespace-only comment, got %v", errs)
	}
}

func TestShareFormValidateCommentsOptional(t *testing.T) {
	t.Parallel()

	form := ShareForm{Name: "Ada", Email: "ada@example.com", To: "friend@example.com"}

	if errs := form.Validate(); !errs.Valid() {
		t.Fatalf("expected valid form without comments, got errors: %v", errs)
	}
}

func TestShareFormValidateRecipientRequired(t *testing.T) {
	t.Parallel()

	form := ShareForm{Name: "Ada", Email: "ada@example.com", To: "not-an-email"}

	if errs := form.Validate(); errs["to"] == "" {
		t.Fatalf("expected recipient error, got %v", errs)
	}
}

func TestContactFormValidate(t *testing.T) {
	t.Parallel()

	valid := ContactForm{Name: "Ada", Email: "ada@example.com", Message: "Hello"}
	if errs := valid.Validate(); !errs.Valid() {
		t.Fatalf("expected valid form, got errors: %v", errs)
	}

	invalid := ContactForm{Email: "nope"}
	errs := invalid.Validate()
	for _, field := range []string{"name", "email", "message"} {
		if errs[field] == "" {
			t.Fatalf("expected error for field %q, got %v", field, errs)
		}
	}
}
