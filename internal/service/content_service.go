package service

// OnboardingSlide is one page of the first-run walkthrough.
type OnboardingSlide struct {
	Order    int    `json:"order"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageKey string `json:"image_key"`
}

// TutorialStep is one step of the in-app request tutorial.
type TutorialStep struct {
	Order  int    `json:"order"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ContentService serves the static onboarding and tutorial copy shown by
// the mobile client. The content is versioned so clients can cache it.
type ContentService struct {
	version  string
	slides   []OnboardingSlide
	tutorial []TutorialStep
}

// NewContentService constructs the service with the built-in content set.
func NewContentService() *ContentService {
	return &ContentService{
		version: "2024-08",
		slides: []OnboardingSlide{
			{Order: 1, Title: "Welcome to eRegistrar", Body: "Request school documents from your phone without lining up at the registrar window.", ImageKey: "onboarding_welcome"},
			{Order: 2, Title: "Track Every Request", Body: "Follow your documents from Processing to To Receive to Completed, all in one place.", ImageKey: "onboarding_track"},
			{Order: 3, Title: "Claim When Ready", Body: "We tell you the exact pickup date. Show your claim slip and a valid school ID at the window.", ImageKey: "onboarding_claim"},
		},
		tutorial: []TutorialStep{
			{Order: 1, Title: "Fill in your details", Detail: "Enter your name, student number, and the document you need."},
			{Order: 2, Title: "Submit the request", Detail: "Your request starts in Processing while the registrar prepares it."},
			{Order: 3, Title: "Wait for the pickup date", Detail: "Once the document is ready it moves to To Receive with a pickup date."},
			{Order: 4, Title: "Claim your document", Detail: "Tap Claim after picking it up to mark the request Completed."},
		},
	}
}

// Version returns the content revision tag.
func (s *ContentService) Version() string {
	return s.version
}

// OnboardingSlides returns the walkthrough pages in display order.
func (s *ContentService) OnboardingSlides() []OnboardingSlide {
	slides := make([]OnboardingSlide, len(s.slides))
	copy(slides, s.slides)
	return slides
}

// TutorialSteps returns the request tutorial in display order.
func (s *ContentService) TutorialSteps() []TutorialStep {
	steps := make([]TutorialStep, len(s.tutorial))
	copy(steps, s.tutorial)
	return steps
}
