package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyCommand            = "command"
	KeyTag                = "tag"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyConfig             = "config"
	KeyCacheKey           = "cacheKey"
	KeyCartLines          = "cartLines"
	KeyCartLinesCount     = "cartLinesCount"
	KeyCartTotal          = "cartTotal"
	KeyProductID          = "productId"
	KeyTransaction        = "transaction"
	KeyTransactionID      = "transactionId"
	KeyTransactionsCount  = "transactionsCount"
	KeyDate               = "date"
	KeyRangeStart         = "rangeStart"
	KeyRangeEnd           = "rangeEnd"
	KeyStoreDriver        = "storeDriver"
	KeyDbURL              = "dbUrl"
	KeyReport             = "report"
	KeyTotalSold          = "totalSold"
	KeyOrderCount         = "orderCount"
	KeyRequestProcessedAt = "requestProcessedAt"
)
