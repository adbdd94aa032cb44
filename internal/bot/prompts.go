package bot

// User-facing texts and model prompts. The reply texts are Markdown where
// ReplyMarkdown is used to send them.

const welcomeText = "👋 *Welcome to StudyBuddy* 🤖\n\n" +
	"📚 Subjects: Maths, Science, English, SST\n" +
	"🧠 Step-by-step + exam-ready answers\n\n" +
	"🎁 Free: 3 questions/day\n" +
	"💎 Premium: Unlimited\n\n" +
	"✍️ Send question like:\n" +
	"`Maths: Solve x² − 5x + 6 = 0`\n\n" +
	"📸 Or send a photo of your question"

const premiumText = "💎 *Premium Plan*\n\n" +
	"✔ Unlimited questions\n" +
	"✔ Exam-oriented answers\n" +
	"✔ Photo questions\n\n" +
	"💰 Price: ₹99/month\n" +
	"👨‍👩‍👧 Guardian UPI only\n\n" +
	"📸 Send payment screenshot here."

const quotaExceededText = "❌ Daily limit reached.\n\n" +
	"💎 Premium = Unlimited questions\n" +
	"Pay via guardian UPI & send screenshot.\n\n" +
	"Type /premium for details."

const quotaExceededPhotoText = "❌ Daily limit reached. Type /premium"

const unlockUsageText = "Usage: /unlock USER_ID"

const unlockedNoticeText = "✅ Premium unlocked for today. Enjoy unlimited access 🎉"

const unlockConfirmText = "User unlocked for today."

const completionFailedText = "⚠️ Something went wrong while answering. Please try again in a moment."

const genericFailureText = "⚠️ Something went wrong. Please try again."

const textQuestionPrompt = `You are a strict but friendly school teacher.

Rules:
- Explain step by step
- Exam-oriented format
- Simple language (Class 6-10)
- Show formulas and logic
- End with final answer

Question:
%s
`

const photoQuestionPrompt = `Solve the question shown in the image.
Explain step by step.
Use exam-oriented language.
`
