package services

import (
	"devflow/internal/models"
	v "devflow/internal/validation"
)

var questionFields = struct {
	title   []v.Rule
	content []v.Rule
	tags    []v.Rule
}{
	title: []v.Rule{
		v.Tag("min=5", "Title is required."),
		v.Tag("max=100", "Title cannot exceed 100 characters."),
	},
	content: []v.Rule{v.Tag("min=1", "Body is required")},
	tags: []v.Rule{
		v.Tag("min=1", "At least one tag is required."),
		v.Tag("max=3", "Cannot add more than 3 tags."),
		v.Tag("dive,min=1", "Tag is required."),
		v.Tag("dive,max=30", "Tag cannot exceed 30 characters."),
	},
}

// Tags are normalized before the rules run, so the limits hold for what is sent.
var CreateQuestionSchema = v.New(
	v.F("title", func(p *CreateQuestionParams) any { return p.Title }, questionFields.title...),
	v.F("content", func(p *CreateQuestionParams) any { return p.Content }, questionFields.content...),
	v.F("tags", func(p *CreateQuestionParams) any { return p.Tags }, questionFields.tags...),
).Default(func(p *CreateQuestionParams) { p.Tags = normalizeTags(p.Tags) })

var EditQuestionSchema = v.New(
	v.F("id", func(p *EditQuestionParams) any { return p.ID }, v.Tag("gte=1", "ID is required.")),
	v.F("title", func(p *EditQuestionParams) any { return p.Title }, questionFields.title...),
	v.F("content", func(p *EditQuestionParams) any { return p.Content }, questionFields.content...),
	v.F("tags", func(p *EditQuestionParams) any { return p.Tags }, questionFields.tags...),
).Default(func(p *EditQuestionParams) { p.Tags = normalizeTags(p.Tags) })

var GetQuestionSchema = v.New(
	v.F("id", func(p *GetQuestionParams) any { return p.ID }, v.Tag("gte=1", "ID is required.")),
)

var IncrementViewsSchema = v.New(
	v.F("questionId", func(p *IncrementViewsParams) any { return p.QuestionID },
		v.Tag("gte=1", "Question id is required")),
)

// paginated declares page/pageSize for any params type embedding PaginatedParams.
func paginated[T any](get func(*T) *PaginatedParams, fields ...v.Field[T]) *v.Schema[T] {
	all := append([]v.Field[T]{
		v.F("page", func(p *T) any { return get(p).Page }, v.Tag("gte=1", "Page must be a positive number.")),
		v.F("pageSize", func(p *T) any { return get(p).PageSize }, v.Tag("gte=1", "Page size must be a positive number.")),
	}, fields...)
	return v.New(all...).Default(func(p *T) {
		pp := get(p)
		if pp.Page == 0 {
			pp.Page = 1
		}
		if pp.PageSize == 0 {
			pp.PageSize = 10
		}
	})
}

var PaginatedSchema = paginated(func(p *PaginatedParams) *PaginatedParams { return p })

var GetTagQuestionsSchema = paginated(
	func(p *GetTagQuestionsParams) *PaginatedParams { return &p.PaginatedParams },
	v.F("tagId", func(p *GetTagQuestionsParams) any { return p.TagID }, v.Tag("gte=1", "Tag ID is required.")),
)

var CreateAnswerSchema = v.New(
	v.F("content", func(p *CreateAnswerParams) any { return p.Content },
		v.Tag("min=100", "Answer has to have more than 100 character.")),
	v.F("question_id", func(p *CreateAnswerParams) any { return p.QuestionID },
		v.Tag("gte=1", "Question ID is required")),
)

var GetAnswersSchema = paginated(
	func(p *GetAnswersParams) *PaginatedParams { return &p.PaginatedParams },
	v.F("question_id", func(p *GetAnswersParams) any { return p.QuestionID }, v.Tag("gte=1", "Question ID is required")),
)

var (
	targetTypeRule = v.Check(func(x any) bool { return x.(models.TargetType).Valid() },
		"Target type must be question or answer.")
	voteTypeRule = v.Check(func(x any) bool { return x.(models.VoteType).Valid() },
		"Vote type must be upvote or downvote.")
)

var CreateVoteSchema = v.New(
	v.F("targetId", func(p *CreateVoteParams) any { return p.TargetID }, v.Tag("gte=1", "Target ID is required.")),
	v.F("targetType", func(p *CreateVoteParams) any { return p.TargetType }, targetTypeRule),
	v.F("voteType", func(p *CreateVoteParams) any { return p.VoteType }, voteTypeRule),
)

var HasVotedSchema = v.New(
	v.F("targetId", func(p *HasVotedParams) any { return p.TargetID }, v.Tag("gte=1", "Target ID is required.")),
	v.F("targetType", func(p *HasVotedParams) any { return p.TargetType }, targetTypeRule),
)

var CollectionSchema = v.New(
	v.F("questionId", func(p *CollectionParams) any { return p.QuestionID }, v.Tag("gte=1", "Question ID is required.")),
)

var GetUserSchema = v.New(
	v.F("id", func(p *GetUserParams) any { return p.ID }, v.Tag("gte=1", "ID is required.")),
)

var SignUpSchema = v.New(
	v.F("username", func(p *SignUpParams) any { return p.Username },
		v.Tag("min=3", "Username must be at least 3 characters long."),
		v.Tag("max=30", "Username cannot exceed 30 characters."),
		v.Pattern(`^[a-zA-Z0-9_]+$`, "Username can only contain letters, numbers, and underscores."),
	),
	v.F("name", func(p *SignUpParams) any { return p.Name },
		v.Tag("min=1", "Name is required."),
		v.Tag("max=50", "Name cannot exceed 50 characters."),
		v.Pattern(`^[a-zA-Z\s]+$`, "Name can only contain letters and spaces."),
	),
	v.F("email", func(p *SignUpParams) any { return p.Email },
		v.Tag("min=1", "Email is required."),
		v.Tag("email", "Please provide a valid email address."),
	),
	v.F("password", func(p *SignUpParams) any { return p.Password },
		v.Tag("min=6", "Password must be at least 6 characters long."),
		v.Tag("max=100", "Password cannot exceed 100 characters."),
		v.Pattern(`[A-Z]`, "Password must contain at least one uppercase letter."),
		v.Pattern(`[a-z]`, "Password must contain at least one lowercase letter."),
		v.Pattern(`[0-9]`, "Password must contain at least one number."),
		v.Pattern(`[^a-zA-Z0-9]`, "Password must contain at least one special character."),
	),
)

var SignInSchema = v.New(
	v.F("email", func(p *SignInParams) any { return p.Email },
		v.Tag("min=1", "Email is required."),
		v.Tag("email", "Please provide a valid email address."),
	),
	v.F("password", func(p *SignInParams) any { return p.Password },
		v.Tag("min=6", "Password must be at least 6 characters long."),
		v.Tag("max=100", "Password cannot exceed 100 characters."),
	),
)

var OAuthSignInSchema = v.New(
	v.F("provider", func(p *OAuthSignInParams) any { return p.Provider },
		v.Tag("oneof=github google", "Provider must be github or google.")),
	v.F("providerAccountId", func(p *OAuthSignInParams) any { return p.ProviderAccountID },
		v.Tag("min=1", "Provider account ID is required.")),
	v.F("name", func(p *OAuthSignInParams) any { return p.Name }, v.Tag("min=1", "Name is required.")),
	v.F("email", func(p *OAuthSignInParams) any { return p.Email },
		v.Tag("email", "Please provide a valid email address.")),
)

var AIAnswerSchema = v.New(
	v.F("question", func(p *AIAnswerParams) any { return p.Question },
		v.Tag("min=5", "Question title must be at least 5 characters.")),
	v.F("content", func(p *AIAnswerParams) any { return p.Content },
		v.Tag("min=10", "Question description must have Minimum of 10 characters.")),
)
