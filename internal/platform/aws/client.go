package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/go-logr/logr"
)

const errCodeDuplicatePermission = "InvalidPermission.Duplicate"

// Client wraps the EC2 API.
type Client struct {
	ec2 *ec2.Client
	log logr.Logger
}

// NewClient creates an EC2 client for the given region and static credentials.
func NewClient(ctx context.Context, region, accessKey, secretKey string, log logr.Logger) (*Client, error) {
	cfg, err := LoadConfig(ctx, region, accessKey, secretKey)
	if err != nil {
		return nil, err
	}

	client := ec2.NewFromConfig(cfg, func(o *ec2.Options) {
		o.Retryer = aws.NopRetryer{}
	})
	return &Client{ec2: client, log: log.WithName("ec2")}, nil
}

// LoadConfig builds an AWS config with static credentials.
func LoadConfig(ctx context.Context, region, accessKey, secretKey string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// FindSecurityGroups returns the ids of the security groups whose Name tag matches glob.
func (c *Client) FindSecurityGroups(ctx context.Context, glob string) ([]string, error) {
	input := &ec2.DescribeSecurityGroupsInput{
		Filters: []types.Filter{nameTagFilter(glob)},
	}

	var ids []string
	paginator := ec2.NewDescribeSecurityGroupsPaginator(c.ec2, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe security groups %s: %w", glob, err)
		}
		for _, sg := range page.SecurityGroups {
			if sg.GroupId != nil {
				ids = append(ids, *sg.GroupId)
			}
		}
	}
	return ids, nil
}

// AuthorizeIngress adds rules to a security group. It reports whether the
// rules are in place; rules that already exist count as applied.
func (c *Client) AuthorizeIngress(ctx context.Context, groupID string, rules []IngressRule) (bool, error) {
	permissions := make([]types.IpPermission, 0, len(rules))
	for _, r := range rules {
		permissions = append(permissions, types.IpPermission{
			IpProtocol: aws.String(r.Protocol),
			FromPort:   aws.Int32(r.FromPort),
			ToPort:     aws.Int32(r.ToPort),
			IpRanges: []types.IpRange{{
				CidrIp:      aws.String(r.CIDR),
				Description: aws.String(r.Description),
			}},
		})
	}

	out, err := c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:       aws.String(groupID),
		IpPermissions: permissions,
	})
	if err != nil {
		if isDuplicatePermission(err) {
			c.log.Info("ingress rules already present", "securityGroup", groupID)
			return true, nil
		}
		return false, fmt.Errorf("failed to authorize ingress on %s: %w", groupID, err)
	}
	return aws.ToBool(out.Return), nil
}

// FindSubnets returns the subnets whose Name tag matches glob.
func (c *Client) FindSubnets(ctx context.Context, glob string) ([]Subnet, error) {
	input := &ec2.DescribeSubnetsInput{
		Filters: []types.Filter{nameTagFilter(glob)},
	}

	var subnets []Subnet
	paginator := ec2.NewDescribeSubnetsPaginator(c.ec2, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe subnets %s: %w", glob, err)
		}
		for _, s := range page.Subnets {
			subnets = append(subnets, Subnet{
				ID:               aws.ToString(s.SubnetId),
				AvailabilityZone: aws.ToString(s.AvailabilityZone),
			})
		}
	}
	return subnets, nil
}

func nameTagFilter(glob string) types.Filter {
	return types.Filter{
		Name:   aws.String("tag:Name"),
		Values: []string{glob},
	}
}

func isDuplicatePermission(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeDuplicatePermission
}
