package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// 错误分类
	"err.network":         "无法连接服务器，请确认后端可达。",
	"err.unauthorized":    "需要认证，请重新登录。",
	"err.not_found":       "接口不存在，请检查配置的 base URL。",
	"err.server":          "服务器返回错误，请重试。",
	"err.fields_required": "数据集 ID、用户名和密码均为必填。",

	// 界面 - 标签页
	"tab.chat":      "对话",
	"tab.downloads": "下载",

	// 界面 - 状态栏
	"status.ready":    "就绪",
	"status.thinking": "思考中...",
	"status.loading":  "加载中...",
	"status.offline":  "未登录",

	// 界面 - 输入
	"input.placeholder": "询问 MOSDAC 数据... (回车发送)",

	// 界面 - 下载视图
	"downloads.empty":         "暂无下载任务，按 n 新建。",
	"downloads.job":           "任务 #%d",
	"downloads.file_ready":    "文件就绪",
	"downloads.form.title":    "新建下载",
	"downloads.form.dataset":  "数据集 ID",
	"downloads.form.username": "MOSDAC 用户名",
	"downloads.form.password": "MOSDAC 密码",
	"downloads.form.submit":   "回车提交，Esc 取消",

	// 界面 - 快捷键
	"keys.tab":     "tab 切换",
	"keys.refresh": "r 刷新",
	"keys.new":     "n 新建下载",
	"keys.quit":    "ctrl+c 退出",

	// 任务状态
	"job.queued":      "排队中",
	"job.processing":  "处理中",
	"job.downloading": "下载中",
	"job.completed":   "已完成",
	"job.failed":      "失败",
	"job.error":       "错误",

	// REPL
	"repl.welcome":    "MOSDAC 助手。输入问题，或 /help 查看命令。",
	"repl.cleared":    "对话已清空，下一条消息将开启新会话。",
	"repl.new":        "已开启新会话 %s",
	"repl.logged_out": "已退出登录。",
	"repl.no_answer":  "(无回答)",

	// CLI
	"cli.login_ok":    "登录成功。",
	"cli.register_ok": "注册成功，现在可以登录。",
	"cli.logout_ok":   "已退出登录。",
	"cli.download_ok": "下载任务已提交。",
	"cli.saved":       "已保存 %s",
}
