// lexflow 服务入口。
//
// 子命令：
//
//	lexflow serve [--config config.yaml]  启动服务
//	lexflow version                       显示版本信息
//	lexflow health [--addr URL]           健康检查
package main
