// Command api-test exercises a running tasklist server end to end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"
)

func main() {
	baseURL := flag.String("base", "http://localhost:7789", "server base URL")
	flag.Parse()

	fmt.Println("=== Task List API 测试 ===")

	// 测试1: 健康检查
	fmt.Println("\n1. 健康检查 /health")
	TestEndpoint(*baseURL, "GET", "/health", nil)

	// 测试2: 空列表
	fmt.Println("\n2. 获取任务列表 /api/v1/tasks")
	TestEndpoint(*baseURL, "GET", "/api/v1/tasks", nil)

	// 测试3: 新建任务
	fmt.Println("\n3. 新建任务")
	today := time.Now().Format("2006-01-02")
	for _, text := range []string{"Write report", "Call plumber"} {
		jsonData, _ := json.Marshal(map[string]string{"text": text, "due_date": today})
		TestEndpoint(*baseURL, "POST", "/api/v1/tasks", jsonData)
	}

	// 测试4: 缺少日期
	fmt.Println("\n4. 缺少日期应返回 400")
	jsonData, _ := json.Marshal(map[string]string{"text": "No date"})
	TestEndpoint(*baseURL, "POST", "/api/v1/tasks", jsonData)

	// 测试5: 完成第一个任务
	fmt.Println("\n5. 切换完成状态")
	TestEndpoint(*baseURL, "POST", "/api/v1/tasks/0/toggle", nil)

	// 测试6: 各个视图
	fmt.Println("\n6. 按视图过滤")
	for _, sel := range []string{"today", "week", "month", "completed", "pending", "bogus"} {
		TestEndpoint(*baseURL, "GET", "/api/v1/tasks?filter="+sel, nil)
	}

	// 测试7: 统计和变更日志
	fmt.Println("\n7. 统计与变更日志")
	TestEndpoint(*baseURL, "GET", "/api/v1/tasks/stats", nil)
	TestEndpoint(*baseURL, "GET", "/api/v1/activity", nil)

	// 测试8: 删除
	fmt.Println("\n8. 删除单个任务并清空")
	TestEndpoint(*baseURL, "DELETE", "/api/v1/tasks/1", nil)
	TestEndpoint(*baseURL, "DELETE", "/api/v1/tasks", nil)

	fmt.Println("\n=== 测试完成 ===")
}

func TestEndpoint(baseURL, method, endpoint string, data []byte) {
	var req *http.Request
	var err error

	url := baseURL + endpoint

	if data != nil {
		req, err = http.NewRequest(method, url, bytes.NewBuffer(data))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequest(method, url, nil)
	}

	if err != nil {
		fmt.Printf("❌ 创建请求失败: %v\n", err)
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)

	if err != nil {
		fmt.Printf("❌ 请求失败: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	fmt.Printf("✅ %s %s - Status: %d\n", method, endpoint, resp.StatusCode)
	if len(body) < 500 {
		fmt.Printf("Response: %s\n", string(body))
	} else {
		fmt.Printf("Response: [Response too large: %d bytes]\n", len(body))
	}
}
