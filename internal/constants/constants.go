package constants

// 队列常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskCartPurgeStale = "cart:purge_stale"
)

// 购物车存储类型常量
const (
	CartStorageMemory   = "memory"
	CartStorageRedis    = "redis"
	CartStorageDatabase = "database"
)

// 购物车事件推送常量
const (
	CartEventStreamName    = "cart"
	CartEventSnapshotName  = "snapshot"
	CartEventKeepaliveName = "keepalive"
	CartEventKeepaliveSec  = 25
)

// 聊天流事件名
const (
	ChatEventMessage = "message"
	ChatEventError   = "error"
	ChatEventDone    = "done"
)
