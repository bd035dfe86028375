// Package config 提供统一配置加载。
// 优先级：默认值 → YAML 文件 → 环境变量。环境变量按
// LEXFLOW_<SECTION>_<FIELD> 命名覆盖对应字段。
package config
