package commentservice

import "github.com/kecbiofuel/blogapi/internal/common"

const maxContentLength = 1000

func validateBlogID(v *common.Validator, blogID string) {
	v.Check(blogID != "", "blog_id", "must be provided")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
	v.Check(len(content) <= maxContentLength, "content", "must not be more than 1000 characters long")
}

func validateID(v *common.Validator, id int64, name string) {
	v.Check(id > 0, name, "must be greater than zero")
}

func validateClientIP(v *common.Validator, ip string) {
	v.Check(ip != "", "client_ip", "must be provided")
}
