package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 示例：
//   var kv core.KeyValueStore = NewMemoryStore()
//   var kv core.KeyValueStore = mustRedis(NewRedisStore("127.0.0.1:6379", 0))
