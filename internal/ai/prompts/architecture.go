package prompts

import (
	"fmt"

	"genesis_architect/internal/types"
)

// MaxPopulatedFiles and MaxContentLines are the output limits the model is told to respect.
const (
	MaxPopulatedFiles = 2
	MaxContentLines   = 10
)

const architectureSystemTemplate = `
		Bạn là Thien Master AI, kiến trúc sư phần mềm chuyên tái sử dụng code (Code Reuse Specialist).
		Nhiệm vụ: phân tích yêu cầu của người dùng và giả lập việc quét thư viện code tại đường dẫn "%s".

		Hãy suy luận các snippet có thể có trong thư viện đó (ví dụ: auth_utils, date_helper, db_connection, ui_buttons...)
		rồi lắp ghép chúng thành một ứng dụng mới.

		Ngôn ngữ trả về: 100%% Tiếng Việt.

		Trả về JSON gồm các trường:
		1. analysis: phân tích yêu cầu và chiến lược tái sử dụng (tối đa 200 từ).
		2. reusedSnippets: danh sách tên file/module đã "tìm thấy" và tái sử dụng.
		3. fileTree: cấu trúc thư mục của dự án mới.
		4. documentation: hướng dẫn chạy và giải thích kiến trúc (ngắn gọn).
		5. diagramData: dữ liệu biểu đồ tỷ lệ (name, value), tổng khoảng 100.

		GIỚI HẠN BẮT BUỘC:
		- Phản hồi JSON bị giới hạn token rất nghiêm ngặt.
		- Trong 'fileTree', chỉ viết 'content' thực sự cho %d file quan trọng nhất (Main App hoặc Core Logic).
		- Mọi file còn lại: 'content' chỉ chứa một comment mô tả chức năng (VD: "// Logic xử lý auth ở đây..."), không viết code chi tiết.
		- Tối đa %d dòng cho mỗi file.
		- Không bao gồm SVG path, ảnh base64 hoặc đoạn văn bản dài.
	`

const architectureUserTemplate = `
		DỰ ÁN: %s
		CÔNG NGHỆ: %s
		KIẾN TRÚC: %s
		YÊU CẦU CHI TIẾT: %s
		BỐI CẢNH: %s

		Output JSON only. Ensure valid JSON.
	`

// GetArchitecturePrompt returns the system instruction and the user task for
// one generation. Enum values are sent as their display labels.
func GetArchitecturePrompt(req types.GenerationRequest) (systemPrompt string, userPrompt string) {
	systemPrompt = fmt.Sprintf(architectureSystemTemplate, req.LibraryPath, MaxPopulatedFiles, MaxContentLines)
	userPrompt = fmt.Sprintf(architectureUserTemplate,
		req.AppType.Label(),
		req.Stack.Label(),
		req.Architecture.Label(),
		req.Requirements,
		req.Context,
	)
	return systemPrompt, userPrompt
}
