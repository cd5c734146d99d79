package prompt

// Feedback styles understood by the composer.
const (
	StyleConstructive = "constructive"
	StyleEncouraging  = "encouraging"
	StyleDetailed     = "detailed"
	StyleBrief        = "brief"
)

// Subjects with dedicated prompt modifiers.
const (
	SubjectMathematics = "Mathematics"
	SubjectScience     = "Science"
	SubjectEnglish     = "English"
	SubjectHistory     = "History"
	SubjectArt         = "Art"
	SubjectPE          = "Physical Education"
	SubjectGeneral     = "General"
)

const constructiveTemplate = `
You are an experienced educator providing constructive feedback to a student. Based on the rubric scores provided, generate personalized, actionable feedback that:

1. Acknowledges the student's strengths
2. Identifies specific areas for improvement
3. Provides concrete suggestions for enhancement
4. Maintains an encouraging and supportive tone
5. Is appropriate for the educational level

Student: {student_name}
Assignment: {assignment_title}
Subject: {subject}

Rubric Scores:
{rubric_data}

Please provide feedback that is:
- Specific and actionable
- Balanced (highlighting both strengths and areas for improvement)
- Encouraging and motivational
- Professional yet warm in tone
- Approximately 150-250 words

Format the feedback as a cohesive paragraph or two, addressing the student directly.
`

const encouragingTemplate = `
You are a supportive educator focused on building student confidence. Based on the rubric scores, generate encouraging feedback that:

1. Celebrates achievements and progress
2. Frames challenges as growth opportunities
3. Builds confidence and motivation
4. Provides gentle guidance for improvement
5. Emphasizes the student's potential

Student: {student_name}
Assignment: {assignment_title}
Subject: {subject}

Rubric Scores:
{rubric_data}

Please provide feedback that is:
- Highly encouraging and positive
- Focuses on growth and potential
- Acknowledges effort and progress
- Provides supportive suggestions
- Builds confidence
- Approximately 120-200 words

Use an uplifting, motivational tone throughout.
`

const detailedTemplate = `
You are a thorough educator providing comprehensive feedback. Based on the rubric scores, generate detailed feedback that:

1. Analyzes each rubric criterion specifically
2. Provides in-depth commentary on performance
3. Offers detailed improvement strategies
4. Explains the reasoning behind scores
5. Gives comprehensive guidance for future work

Student: {student_name}
Assignment: {assignment_title}
Subject: {subject}

Rubric Scores:
{rubric_data}

Please provide feedback that is:
- Comprehensive and thorough
- Addresses each rubric criterion
- Provides detailed explanations
- Offers specific improvement strategies
- Maintains professional tone
- Approximately 250-400 words

Structure the feedback with clear sections for each major area.
`

const briefTemplate = `
You are an efficient educator providing concise feedback. Based on the rubric scores, generate brief but meaningful feedback that:

1. Highlights key strengths
2. Identifies main areas for improvement
3. Provides essential guidance
4. Maintains encouraging tone
5. Is clear and to the point

Student: {student_name}
Assignment: {assignment_title}
Subject: {subject}

Rubric Scores:
{rubric_data}

Please provide feedback that is:
- Concise but meaningful
- Highlights key points only
- Maintains positive tone
- Provides essential guidance
- Approximately 80-120 words

Keep it brief but impactful.
`

const mathModifier = `
Mathematics-specific considerations:
- Focus on problem-solving approaches and mathematical reasoning
- Address computational accuracy and method selection
- Emphasize understanding of concepts over memorization
- Suggest practice strategies for skill development
- Use mathematical terminology appropriately
`

const scienceModifier = `
Science-specific considerations:
- Emphasize scientific method and inquiry skills
- Address experimental design and data analysis
- Focus on understanding of scientific concepts and principles
- Encourage curiosity and further exploration
- Use scientific vocabulary and terminology
`

const englishModifier = `
English-specific considerations:
- Focus on writing clarity, organization, and style
- Address reading comprehension and analysis skills
- Emphasize grammar, vocabulary, and language mechanics
- Encourage creative expression and critical thinking
- Suggest reading and writing improvement strategies
`

const historyModifier = `
History-specific considerations:
- Emphasize critical analysis of historical sources
- Address understanding of cause and effect relationships
- Focus on chronological thinking and historical context
- Encourage connections between past and present
- Use historical terminology and concepts appropriately
`

const artModifier = `
Art-specific considerations:
- Focus on creativity, originality, and artistic expression
- Address technical skills and use of materials/tools
- Emphasize visual composition and design principles
- Encourage artistic exploration and risk-taking
- Appreciate individual artistic voice and style
`

const peModifier = `
Physical Education-specific considerations:
- Focus on skill development and physical improvement
- Address teamwork, sportsmanship, and cooperation
- Emphasize effort, participation, and attitude
- Encourage healthy lifestyle choices
- Recognize individual progress and achievement
`

const generalModifier = `
General considerations:
- Maintain age-appropriate language and expectations
- Focus on learning process and growth mindset
- Encourage continued effort and engagement
- Provide actionable next steps
- Build confidence while promoting improvement
`

var styleTemplates = map[string]string{
	StyleConstructive: constructiveTemplate,
	StyleEncouraging:  encouragingTemplate,
	StyleDetailed:     detailedTemplate,
	StyleBrief:        briefTemplate,
}

var subjectModifiers = map[string]string{
	SubjectMathematics: mathModifier,
	SubjectScience:     scienceModifier,
	SubjectEnglish:     englishModifier,
	SubjectHistory:     historyModifier,
	SubjectArt:         artModifier,
	SubjectPE:          peModifier,
	SubjectGeneral:     generalModifier,
}

// Styles lists the supported feedback styles in catalog order.
func Styles() []string {
	return []string{StyleConstructive, StyleEncouraging, StyleDetailed, StyleBrief}
}

// Subjects lists the supported subjects in catalog order.
func Subjects() []string {
	return []string{
		SubjectMathematics,
		SubjectScience,
		SubjectEnglish,
		SubjectHistory,
		SubjectArt,
		SubjectPE,
		SubjectGeneral,
	}
}
