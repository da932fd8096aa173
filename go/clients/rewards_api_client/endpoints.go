package rewards_api_client

// API endpoint paths.
const (
	LoginEndpoint   = "/api/user/login"
	SignupEndpoint  = "/api/user/signup"
	ProfileEndpoint = "/api/user/profile"
	UsersEndpoint   = "/api/user"

	ProductsEndpoint        = "/api/product"
	ProductCategoryEndpoint = "/api/product/category"
	ProductCreateEndpoint   = "/api/product/create"
	ProductUpdateEndpoint   = "/api/product/update"
	ProductDeleteEndpoint   = "/api/product/delete"

	OrderCreateEndpoint = "/api/order/create"
	OrderViewEndpoint   = "/api/order/view"
	OrderAllEndpoint    = "/api/order/all"
	OrderUpdateEndpoint = "/api/order/update"

	BetItemsEndpoint   = "/api/bets-item"
	BetPlaceEndpoint   = "/api/bets/place"
	BetResolveEndpoint = "/api/bets/resolve"
	MyBetsEndpoint     = "/api/bets/my-bets"
	BetsAllEndpoint    = "/api/bets/all"
	BetWinnersEndpoint = "/api/bets/winners"

	WalletCreateEndpoint  = "/api/wallet/create"
	WalletUserEndpoint    = "/api/wallet/user"
	WalletPendingEndpoint = "/api/wallet/pending"
	WalletAcceptEndpoint  = "/api/wallet/accept"
	WalletAllEndpoint     = "/api/wallet/all"

	TaskAllEndpoint       = "/api/task/all"
	TaskAvailableEndpoint = "/api/task/available"
	TaskCompleteEndpoint  = "/api/task/complete"
	TaskCreateEndpoint    = "/api/task"

	GiftRedeemEndpoint = "/api/redeem/gift"
	GiftCreateEndpoint = "/api/giftcode"

	AdStatsEndpoint = "/api/ads/stats"
	WatchAdEndpoint = "/api/ads/watchAd"
	SpinEndpoint    = "/api/spin/spin"

	QuizNextEndpoint   = "/api/question/emoji-next"
	QuizAnswerEndpoint = "/api/question/emoji-answer"
	QuizAllEndpoint    = "/api/question/emoji-question/all"
	QuizCreateEndpoint = "/api/question/emoji-question/create"
	QuizManageEndpoint = "/api/question/emoji-question"
)
