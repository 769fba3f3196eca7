package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"bankledger/internal/repository"
	"bankledger/internal/service"
	"bankledger/pkg/pinauth"
)

// Menu 文本菜单壳层
// 只负责读输入、做格式校验、打印结果；所有状态变更都委托给 LedgerService
type Menu struct {
	ledger *service.LedgerService
	report *service.ReportService
	in     *bufio.Reader
}

func NewMenu(ledger *service.LedgerService, report *service.ReportService, in *bufio.Reader) *Menu {
	return &Menu{
		ledger: ledger,
		report: report,
		in:     in,
	}
}

// Run 主循环，直到用户选择退出或输入流关闭
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Println()
		fmt.Println("===== 银行账本系统 =====")
		fmt.Println("1. 开户")
		fmt.Println("2. 存款")
		fmt.Println("3. 取款")
		fmt.Println("4. 转账")
		fmt.Println("5. 查询余额")
		fmt.Println("6. 交易历史")
		fmt.Println("7. 网点报表")
		fmt.Println("8. 对账")
		fmt.Println("9. 销户")
		fmt.Println("0. 退出")

		choice, err := m.prompt("请选择: ")
		if err != nil {
			return nil // 输入流关闭，正常退出
		}

		switch choice {
		case "1":
			m.createAccount(ctx)
		case "2":
			m.deposit(ctx)
		case "3":
			m.withdraw(ctx)
		case "4":
			m.transfer(ctx)
		case "5":
			m.balance(ctx)
		case "6":
			m.history(ctx)
		case "7":
			m.branchReport(ctx)
		case "8":
			m.reconcile(ctx)
		case "9":
			m.closeAccount(ctx)
		case "0":
			fmt.Println("感谢使用，再见！")
			return nil
		default:
			fmt.Println("无效的选项，请重试")
		}
	}
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) createAccount(ctx context.Context) {
	name, err := m.prompt("姓名: ")
	if err != nil {
		return
	}

	var mail string
	for {
		mail, err = m.prompt("邮箱: ")
		if err != nil {
			return
		}
		if IsValidEmail(mail) {
			break
		}
		fmt.Println("邮箱格式不正确，请重新输入（如 user@example.com）")
	}

	var mobile string
	for {
		mobile, err = m.prompt("手机号（10位数字）: ")
		if err != nil {
			return
		}
		if IsValidMobile(mobile) {
			break
		}
		fmt.Println("手机号必须是10位数字")
	}

	address, err := m.prompt("地址: ")
	if err != nil {
		return
	}

	var deposit int64
	for {
		input, err := m.prompt("初始存款（>= 0）: ")
		if err != nil {
			return
		}
		amount, ok := ParseAmount(input)
		if ok && amount >= 0 {
			deposit = amount
			break
		}
		fmt.Println("金额不合法，请输入非负整数")
	}

	pin, err := m.prompt("设置4位数字 PIN: ")
	if err != nil {
		return
	}

	accountNo, err := m.ledger.CreateAccount(ctx, &service.CreateAccountRequest{
		Name:           name,
		Mail:           mail,
		MobileNum:      mobile,
		Address:        address,
		InitialDeposit: deposit,
		Pin:            pin,
	})
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Printf("开户成功！您的账户号是 %s\n", accountNo)
}

func (m *Menu) deposit(ctx context.Context) {
	accountNo, pin, amount, ok := m.readOpInput()
	if !ok {
		return
	}
	balance, err := m.ledger.Deposit(ctx, accountNo, pin, amount)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Printf("存入 %d，最新余额: %d\n", amount, balance)
}

func (m *Menu) withdraw(ctx context.Context) {
	accountNo, pin, amount, ok := m.readOpInput()
	if !ok {
		return
	}
	balance, err := m.ledger.Withdraw(ctx, accountNo, pin, amount)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Printf("取出 %d，最新余额: %d\n", amount, balance)
}

func (m *Menu) transfer(ctx context.Context) {
	from, err := m.prompt("转出账户号: ")
	if err != nil {
		return
	}
	pin, err := m.prompt("PIN: ")
	if err != nil {
		return
	}
	to, err := m.prompt("转入账户号: ")
	if err != nil {
		return
	}
	input, err := m.prompt("转账金额: ")
	if err != nil {
		return
	}
	amount, ok := ParseAmount(input)
	if !ok {
		fmt.Println("金额不合法")
		return
	}

	if err := m.ledger.Transfer(ctx, from, pin, to, amount); err != nil {
		m.printError(err)
		return
	}
	fmt.Printf("转账成功: %s -> %s, 金额 %d\n", from, to, amount)
}

func (m *Menu) balance(ctx context.Context) {
	accountNo, err := m.prompt("账户号: ")
	if err != nil {
		return
	}
	balance, err := m.report.Balance(ctx, accountNo)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Printf("当前余额: %d\n", balance)
}

func (m *Menu) history(ctx context.Context) {
	accountNo, err := m.prompt("账户号: ")
	if err != nil {
		return
	}
	records, err := m.report.History(ctx, accountNo)
	if err != nil {
		m.printError(err)
		return
	}
	if len(records) == 0 {
		fmt.Println("该账户暂无交易记录")
		return
	}
	fmt.Println("交易历史:")
	for _, r := range records {
		fmt.Printf("  - %s | %-12s | 金额 %d | 余额 %d | %s\n",
			r.TransactionNo, r.Type, r.Amount, r.CurrentBalance,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func (m *Menu) branchReport(ctx context.Context) {
	report, err := m.report.GetBranchReport(ctx)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Println("网点报表")
	fmt.Printf("在册账户数: %d\n", report.AccountCount)
	fmt.Printf("全行余额总和: %d\n", report.TotalFunds)
}

func (m *Menu) reconcile(ctx context.Context) {
	result, err := m.report.Reconcile(ctx)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Printf("账户余额总和: %d\n", result.TotalFunds)
	fmt.Printf("流水净资金流: %d\n", result.LedgerNet)
	if result.Balanced {
		fmt.Println("对账一致")
	} else {
		fmt.Println("对账不一致，请检查数据！")
	}
}

func (m *Menu) closeAccount(ctx context.Context) {
	accountNo, err := m.prompt("账户号: ")
	if err != nil {
		return
	}
	pin, err := m.prompt("PIN: ")
	if err != nil {
		return
	}
	confirm, err := m.prompt(fmt.Sprintf("确认销户 %s？(yes/no): ", accountNo))
	if err != nil {
		return
	}
	if strings.ToLower(confirm) != "yes" {
		fmt.Println("已取消销户")
		return
	}

	finalBalance, err := m.ledger.CloseAccount(ctx, accountNo, pin)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Printf("账户 %s 已销户，最终余额 %d\n", accountNo, finalBalance)
}

func (m *Menu) readOpInput() (accountNo, pin string, amount int64, ok bool) {
	accountNo, err := m.prompt("账户号: ")
	if err != nil {
		return "", "", 0, false
	}
	pin, err = m.prompt("PIN: ")
	if err != nil {
		return "", "", 0, false
	}
	input, err := m.prompt("金额: ")
	if err != nil {
		return "", "", 0, false
	}
	amount, valid := ParseAmount(input)
	if !valid {
		fmt.Println("金额不合法")
		return "", "", 0, false
	}
	return accountNo, pin, amount, true
}

// printError 把领域错误转成用户提示
// 账户不存在与 PIN 错误统一提示，避免暴露账户号是否存在
func (m *Menu) printError(err error) {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound), errors.Is(err, service.ErrWrongPin):
		fmt.Println("账户不存在或 PIN 错误")
	case errors.Is(err, repository.ErrDuplicateEmail):
		fmt.Println("该邮箱已被注册，请使用其他邮箱")
	case errors.Is(err, repository.ErrDuplicateMobile):
		fmt.Println("该手机号已被注册")
	case errors.Is(err, service.ErrInvalidAmount):
		fmt.Println("金额必须为正数")
	case errors.Is(err, service.ErrInsufficientFunds):
		fmt.Println("余额不足")
	case errors.Is(err, service.ErrSameAccount):
		fmt.Println("转入和转出账户不能相同")
	case errors.Is(err, pinauth.ErrInvalidPinFormat):
		fmt.Println("PIN 必须为4位数字")
	default:
		fmt.Printf("操作失败: %v\n", err)
	}
}
