// internal/conversation/messages.go
package conversation

// Canned reply templates. Kept as package-level constants so the
// engine and its tests share a single source of truth for wording.
const (
	MsgWelcome = "👋 *Welcome to Amazio!*\n\nI'm your smart shopping assistant powered by AI. I analyze Amazon product reviews to help you make informed decisions.\n\n*Available Commands:*\n🔍 !analyze [productId] - Get detailed review analysis\n📊 !stats [productId] - View review statistics\n💡 !compare [productId1] [productId2] - Compare two products\n❓ !help - Show all commands"

	MsgAnalyzing = "🔍 *Analysis in Progress*\nPlease wait while I analyze the reviews for this product...\n\n_This usually takes about 30 seconds_"

	MsgComparing = "🔄 Comparing products..."

	MsgErrGeneral        = "❌ Oops! Something went wrong. Please try again or contact support."
	MsgErrInvalidProduct = "⚠️ Invalid product ID. Please check and try again."
	MsgErrNoReviews      = "📝 No reviews found for this product. It might be new or not available."
	MsgErrAnalysis       = "⚠️ Unable to analyze reviews at the moment. Please try again later."

	MsgAskForProduct = "I can help you analyze that! Please share the Amazon product link or paste the product ID."

	MsgAskForFirstProduct  = "Sure! Send me the first product link or ID you'd like to compare."
	MsgAskForSecondProduct = "Got it! Now send me the second product link or ID."

	MsgInvalidProductHint = "I couldn't find a valid product ID. You can find it in the Amazon URL (it's 10 characters, like B00ZV9PXP2) or share the product link."

	MsgNotInDataset = "I couldn't find that product. Here's how to find the correct product ID:"

	MsgRecovery = "Let's start over. Share a product link or ID, or type !help to see what I can do."

	MsgUnknown = "I'm not sure what you mean. Share an Amazon product link, paste a product ID, or type !help to see what I can do."

	MsgFindProductID = "*How to Find a Product ID* 📝\n\n1. Go to the Amazon product page\n2. Look in the URL for a 10-character code (e.g., B00ZV9PXP2)\n   OR\n3. Simply share the product link with me\n\n_Example: https://amazon.com/dp/B00ZV9PXP2_"
)

// helpTopics maps a !help argument to its detailed text. Unknown
// topics fall back to helpMain.
const helpMain = "*Amazio Commands Guide* 🤖\n\n*Basic Commands:*\n!analyze [productId] - Full review analysis\n!stats [productId] - Quick statistics\n!compare [productId1] [productId2] - Compare products\n!help [command] - Detailed help for a command\n\n*Examples:*\n!analyze B00ZV9PXP2\n!stats B00ZV9PXP2\n!compare B00ZV9PXP2 B00ZV9PXP3"

var helpTopics = map[string]string{
	"analyze":  "*Analyze Command Help*\n\nUse !analyze [productId] to get:\n- Sentiment analysis\n- Review breakdown\n- Confidence score\n- Key insights\n- Recommendation\n\n*Example:* !analyze B00ZV9PXP2",
	"stats":    "*Stats Command Help*\n\nUse !stats [productId] to get:\n- Rating distribution\n- Review count\n- Quick summary\n\n*Example:* !stats B00ZV9PXP2",
	"compare":  "*Compare Command Help*\n\nUse !compare [productId1] [productId2] to:\n- Compare sentiments\n- View ratings side by side\n- Get recommendation\n\n*Example:* !compare B00ZV9PXP2 B00ZV9PXP3",
	"examples": "*Example Commands* 💡\n\n• What do you think about this product? (then share link)\n• Should I buy this? (then share link)\n• Compare these products (then share two links)\n• Is this a good product? (then share link)",
}

// HelpText returns the help reply for a topic, or the command guide
// when the topic is empty or unknown.
func HelpText(topic string) string {
	if text, ok := helpTopics[topic]; ok {
		return text
	}
	return helpMain
}
