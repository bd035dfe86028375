// Package protocol 实现代理与调用方之间的流式帧协议。
//
// 线上格式为按行分隔的 JSON 帧：零或多条 thinking_step 帧之后，
// 恰好一条终结 response 帧（携带全部思考步骤），随后流关闭。
// Encoder 负责编码并尽力逐帧冲刷；Decoder 跨分块缓冲不完整的行，
// 跳过并记录无法解析的帧，流关闭而未见 response 帧时判定为硬失败。
//
// 同一帧格式也可经 websocket 传输，见 ws.go。
package protocol
